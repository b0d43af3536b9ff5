package anonymize

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Registry 保存一次导出过程中的 id→name 记录以及名称→假名映射。
// 每次导出新建一个，不同导出之间互不影响；非并发安全。
type Registry struct {
	ids      map[string]map[string]string
	names    map[string]map[string]string
	counters map[string]int
}

// NewRegistry 创建空注册表。
func NewRegistry() *Registry {
	return &Registry{
		ids:      make(map[string]map[string]string),
		names:    make(map[string]map[string]string),
		counters: make(map[string]int),
	}
}

// Observe 记录某实体类型下 id 对应的原始名称。
func (r *Registry) Observe(entityType, id, name string) {
	m, ok := r.ids[entityType]
	if !ok {
		m = make(map[string]string)
		r.ids[entityType] = m
	}
	m[id] = name
}

// Seen 判断 id 是否已在该实体类型下出现过。
func (r *Registry) Seen(entityType, id string) bool {
	_, ok := r.ids[entityType][id]
	return ok
}

// Name 返回 id 的原始名称。
func (r *Registry) Name(entityType, id string) (string, bool) {
	name, ok := r.ids[entityType][id]
	return name, ok
}

// Count 返回该实体类型已记录的 id 数量。
func (r *Registry) Count(entityType string) int {
	return len(r.ids[entityType])
}

// Pseudonym 返回 name 在 entityType 下的假名，首次出现时按计数器生成，
// 例如 teams 下依次为 Team1、Team2。
func (r *Registry) Pseudonym(entityType, name string) string {
	m, ok := r.names[entityType]
	if !ok {
		m = make(map[string]string)
		r.names[entityType] = m
	}
	if alias, ok := m[name]; ok {
		return alias
	}
	r.counters[entityType]++
	alias := Label(entityType) + strconv.Itoa(r.counters[entityType])
	m[name] = alias
	return alias
}

// Label 把复数实体类型转成假名前缀：去掉末尾一个字符并首字母大写、其余小写。
func Label(entityType string) string {
	if entityType == "" {
		return ""
	}
	_, size := utf8.DecodeLastRuneInString(entityType)
	singular := entityType[:len(entityType)-size]
	if singular == "" {
		return ""
	}
	first, n := utf8.DecodeRuneInString(singular)
	return string(unicode.ToUpper(first)) + strings.ToLower(singular[n:])
}
