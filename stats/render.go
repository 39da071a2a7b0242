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

package stats

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/zintix-labs/scratchlab/errs"
)

// StatReportRender 定義輸出行為
type StatReportRender interface {
	Write(w io.Writer, r *StatReport) error
}

// Json渲染
type JsonStatReportRender struct{}

func (jr *JsonStatReportRender) Write(w io.Writer, r *StatReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// YAML渲染
type YAMLStatReportRender struct{}

func (yr *YAMLStatReportRender) Write(w io.Writer, r *StatReport) error {
	return forceReadableList(w, r)
}

// RenderFor 依副檔名挑選渲染器，".zst" 後綴先剝除再判斷。
func RenderFor(name string) (StatReportRender, error) {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(strings.ToLower(name), ".zst")))
	switch ext {
	case ".json":
		return &JsonStatReportRender{}, nil
	case ".yaml", ".yml":
		return &YAMLStatReportRender{}, nil
	}
	return nil, errs.Argumentf("unsupported report format %q, want .json|.yaml|.yml (optionally .zst)", name)
}

// SaveFile 寫出報表；".zst" 結尾以 zstd 壓縮。
func (s *StatReport) SaveFile(path string) (err error) {
	rep, err := RenderFor(path)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errs.WrapKind(err, errs.KindArgument, "create report file")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errs.Wrap(cerr, "close report file")
		}
	}()

	var w io.Writer = f
	if strings.HasSuffix(strings.ToLower(path), ".zst") {
		zw, zerr := zstd.NewWriter(f)
		if zerr != nil {
			return errs.Wrap(zerr, "zstd writer")
		}
		if err = s.WriteWith(zw, rep); err != nil {
			zw.Close()
			return errs.Wrap(err, "render report")
		}
		if err = zw.Close(); err != nil {
			return errs.Wrap(err, "flush zstd")
		}
		return nil
	}
	if err = s.WriteWith(w, rep); err != nil {
		return errs.Wrap(err, "render report")
	}
	return nil
}

// 外層 sequence 保持展開，最內層一維改用 flow style: [a, b, c]
func forceReadableList[T any](w io.Writer, t *T) error {
	var node yaml.Node
	if err := node.Encode(t); err != nil {
		return err
	}
	styleReadableSequences(&node)

	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(&node)
}

func styleReadableSequences(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.MappingNode:
		for _, c := range n.Content {
			styleReadableSequences(c)
		}
	case yaml.SequenceNode:
		// 元素含 mapping（例如 CountRate）時也要展開
		nested := false
		for _, c := range n.Content {
			if c != nil && (c.Kind == yaml.SequenceNode || c.Kind == yaml.MappingNode) {
				nested = true
			}
			styleReadableSequences(c)
		}
		if !nested {
			n.Style = yaml.FlowStyle
		}
	}
}
