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
	"fmt"
	"iter"
	"slices"

	"gopkg.in/yaml.v3"
)

// Ordered 保留宣告順序的字串鍵表。
//
// 設定檔中的 symbols、win_combinations 與權重表都依賴順序：
// 抽樣依宣告順序累加權重，同分組合取先宣告者。Go map 沒有順序，所以改用 keys + map。
// 重複的鍵保留第一次出現的位置，值以最後一次為準。
type Ordered[V any] struct {
	keys []string
	vals map[string]V
}

// NewOrdered 以 key, value 交錯的方式建立，主要給測試與程式內建設定使用。
func NewOrdered[V any](pairs ...Pair[V]) Ordered[V] {
	o := Ordered[V]{}
	for _, p := range pairs {
		o.Set(p.Key, p.Val)
	}
	return o
}

type Pair[V any] struct {
	Key string
	Val V
}

func P[V any](k string, v V) Pair[V] {
	return Pair[V]{Key: k, Val: v}
}

func (o *Ordered[V]) Set(k string, v V) {
	if o.vals == nil {
		o.vals = make(map[string]V)
	}
	if _, ok := o.vals[k]; !ok {
		o.keys = append(o.keys, k)
	}
	o.vals[k] = v
}

func (o Ordered[V]) Get(k string) (V, bool) {
	v, ok := o.vals[k]
	return v, ok
}

func (o Ordered[V]) Len() int {
	return len(o.keys)
}

func (o Ordered[V]) Keys() []string {
	return slices.Clone(o.keys)
}

// Values 依宣告順序回傳值
func (o Ordered[V]) Values() []V {
	out := make([]V, len(o.keys))
	for i, k := range o.keys {
		out[i] = o.vals[k]
	}
	return out
}

func (o Ordered[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for _, k := range o.keys {
			if !yield(k, o.vals[k]) {
				return
			}
		}
	}
}

func (o *Ordered[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	*o = Ordered[V]{}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("ordered: expected object, got %v", tok)
	}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := kt.(string)
		if !ok {
			return fmt.Errorf("ordered: expected string key, got %v", kt)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("ordered: key %q: %w", key, err)
		}
		o.Set(key, v)
	}
	// 收尾的 '}'
	_, err = dec.Token()
	return err
}

func (o Ordered[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(o.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (o *Ordered[V]) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		node = node.Alias
	}
	*o = Ordered[V]{}
	if node.Tag == "!!null" {
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("ordered: line %d: expected mapping", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		var key string
		if err := node.Content[i].Decode(&key); err != nil {
			return err
		}
		var v V
		if err := node.Content[i+1].Decode(&v); err != nil {
			return fmt.Errorf("ordered: key %q: %w", key, err)
		}
		o.Set(key, v)
	}
	return nil
}

func (o Ordered[V]) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range o.keys {
		kn := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		vn := &yaml.Node{}
		if err := vn.Encode(o.vals[k]); err != nil {
			return nil, err
		}
		n.Content = append(n.Content, kn, vn)
	}
	return n, nil
}
