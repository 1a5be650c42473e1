package migrate

import (
	"context"
	"database/sql"

	"statemap/internal/logger"
)

// 背景：首次运行自动创建检索统计表
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；仅创建最小必需结构
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS _sm_search_daily (
            day DATE NOT NULL,
            outcome TEXT NOT NULL,
            queries BIGINT NOT NULL DEFAULT 0,
            PRIMARY KEY (day, outcome)
        )`,
		`CREATE TABLE IF NOT EXISTS _sm_search_terms (
            term TEXT PRIMARY KEY,
            hits BIGINT NOT NULL DEFAULT 0,
            misses BIGINT NOT NULL DEFAULT 0,
            last_seen TIMESTAMPTZ NOT NULL DEFAULT now()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_sm_terms_misses ON _sm_search_terms(misses DESC)`,
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "idx", i)
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	logger.L().Debug("schema_done")
	return nil
}
