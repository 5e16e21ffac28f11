package repository

import (
	"database/sql"
	"errors"
	"strings"

	"zooback/internal/domain"

	"github.com/lib/pq"
)

// isUniqueViolation 唯一索引冲突（并发下 read-then-write 检查漏过时兜底）
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

func joinAnd(conds []string) string {
	return strings.Join(conds, " AND ")
}

func joinComma(parts []string) string {
	return strings.Join(parts, ", ")
}

// offset page/size 换算，page 从 1 开始
func offset(page, size int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * size
}

// requireRow 更新/删除必须命中一行，否则目标不存在
func requireRow(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFoundf("%s %s not found", entity, id)
	}
	return nil
}
