// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package demo_configs 內建的示範設定檔，同一份設定提供 json 與 yaml 兩種格式。
package demo_configs

import (
	"embed"
)

// FS provides embedded default configs for external usage.
//
//go:embed *.json *.yaml
var FS embed.FS

const (
	JSON = "config.json"
	YAML = "config.yaml"
)
