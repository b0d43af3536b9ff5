package util

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
)

// HashMap 返回 map 的稳定 hash，用于内容对比；exclude 中的键不参与计算。
func HashMap(m map[string]any, exclude ...string) string {
	skip := make(map[string]bool, len(exclude))
	for _, k := range exclude {
		skip[k] = true
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		if !skip[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		fmt.Fprintf(h, "%s=%v\x00", k, m[k])
	}
	return hex.EncodeToString(h.Sum(nil))
}
