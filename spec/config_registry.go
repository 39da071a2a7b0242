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

package spec

import (
	"bytes"
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/scratchlab/errs"
)

// GetGameConfigByYAML
// 會讀取 Yaml 設定、初始化各子設定並執行基本檢查後回傳
func GetGameConfigByYAML(data []byte) (*GameConfig, error) {
	gc := &GameConfig{}
	if err := yaml.Unmarshal(data, gc); err != nil {
		return nil, errs.WrapKind(err, errs.KindConfig, "failed to unmarshal yaml")
	}
	if err := gc.Init(); err != nil {
		return nil, errs.Wrap(err, "game config initialized err")
	}
	return gc, nil
}

// GetGameConfigByJSON
// 會讀取 Json 設定、初始化各子設定並執行基本檢查後回傳
func GetGameConfigByJSON(data []byte) (*GameConfig, error) {
	gc := &GameConfig{}
	if err := json.Unmarshal(data, gc); err != nil {
		return nil, errs.WrapKind(err, errs.KindConfig, "can not unmarshal json bytes")
	}
	if err := gc.Init(); err != nil {
		return nil, errs.Wrap(err, "game config initialized err")
	}
	return gc, nil
}

// LoadFile 由檔案路徑載入，見 LoadFS
func LoadFile(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.WrapKind(err, errs.KindConfig, "can not read config file")
	}
	return decodeByName(filepath.Base(path), data)
}

// LoadFS 依副檔名決定格式：
//
//	.json / .yaml / .yml，可再加上 .zst 或 .gz 壓縮，例如 config.json.zst
func LoadFS(fsys fs.FS, name string) (*GameConfig, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errs.WrapKind(err, errs.KindConfig, "can not read config file")
	}
	return decodeByName(name, data)
}

func decodeByName(name string, data []byte) (*GameConfig, error) {
	name = strings.ToLower(name)
	var err error
	switch filepath.Ext(name) {
	case ".zst":
		if data, err = unzstd(data); err != nil {
			return nil, err
		}
		name = strings.TrimSuffix(name, ".zst")
	case ".gz":
		if data, err = ungzip(data); err != nil {
			return nil, err
		}
		name = strings.TrimSuffix(name, ".gz")
	}
	switch filepath.Ext(name) {
	case ".json":
		return GetGameConfigByJSON(data)
	case ".yaml", ".yml":
		return GetGameConfigByYAML(data)
	default:
		return nil, errs.Configf("unsupported config format %q", name)
	}
}

func unzstd(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errs.WrapKind(err, errs.KindConfig, "zstd reader")
	}
	defer dec.Close()
	out, err := dec.DecodeAll(data, nil)
	if err != nil {
		return nil, errs.WrapKind(err, errs.KindConfig, "zstd decode")
	}
	return out, nil
}

func ungzip(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, errs.WrapKind(err, errs.KindConfig, "gzip reader")
	}
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, errs.WrapKind(err, errs.KindConfig, "gzip decode")
	}
	return out, nil
}

// ToJSON 輸出與輸入同樣格式的設定文件
func (gc *GameConfig) ToJSON() ([]byte, error) {
	return json.MarshalIndent(gc, "", "  ")
}

func (gc *GameConfig) ToYAML() ([]byte, error) {
	return yaml.Marshal(gc)
}
