package repository

import "strings"

// paginate 内存分页，与 Postgres 的 LIMIT/OFFSET 行为一致
func paginate[T any](all []T, page, size int) []T {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 50
	}
	start := (page - 1) * size
	if start > len(all) {
		start = len(all)
	}
	end := start + size
	if end > len(all) {
		end = len(all)
	}
	return all[start:end]
}

// matches 与 SQL 的 LIKE '%x%' 一致：大小写敏感子串匹配，空串不过滤
func matches(value, substr string) bool {
	return substr == "" || strings.Contains(value, substr)
}
