// 包 store：检索统计的 PostgreSQL 访问层（按日计数与高频未命中词）；不保存任何会话状态
package store

import (
	"context"
	"database/sql"
	"unicode/utf8"

	"statemap/internal/logger"
)

// 词条长度上限，超长输入截断后再入库
const maxTerm = 128

type Store struct {
	db *sql.DB
}

func AttachDB(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

// RecordSearch：记录一次非空检索；outcome 为 hit 或 miss
// 约束：按日计数与词条计数在同一事务内写入
func (s *Store) RecordSearch(ctx context.Context, term string, hit bool) error {
	if term == "" {
		return nil
	}
	term = truncateTerm(term, maxTerm)
	outcome := "miss"
	hits, misses := 0, 1
	if hit {
		outcome = "hit"
		hits, misses = 1, 0
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `INSERT INTO _sm_search_daily(day, outcome, queries) VALUES(current_date, $1, 1)
        ON CONFLICT (day, outcome) DO UPDATE SET queries=_sm_search_daily.queries+1`, outcome); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO _sm_search_terms(term, hits, misses, last_seen) VALUES($1, $2, $3, now())
        ON CONFLICT (term) DO UPDATE SET hits=_sm_search_terms.hits+EXCLUDED.hits, misses=_sm_search_terms.misses+EXCLUDED.misses, last_seen=now()`,
		term, hits, misses); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	logger.L().Debug("stats_search_recorded", "term", term, "outcome", outcome)
	return nil
}

// truncateTerm：按字节上限截断，不切断多字节字符
func truncateTerm(s string, max int) string {
	if len(s) <= max {
		return s
	}
	i := max
	for i > 0 && !utf8.RuneStart(s[i]) {
		i--
	}
	return s[:i]
}

// Totals：累计与当日命中/未命中
type Totals struct {
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	TodayHits   int64 `json:"todayHits"`
	TodayMisses int64 `json:"todayMisses"`
}

func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT outcome,
            COALESCE(SUM(queries), 0),
            COALESCE(SUM(queries) FILTER (WHERE day = current_date), 0)
        FROM _sm_search_daily GROUP BY outcome`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var t Totals
	for rows.Next() {
		var outcome string
		var all, today int64
		if err := rows.Scan(&outcome, &all, &today); err != nil {
			return nil, err
		}
		switch outcome {
		case "hit":
			t.Hits, t.TodayHits = all, today
		case "miss":
			t.Misses, t.TodayMisses = all, today
		}
	}
	return &t, rows.Err()
}

// Term：检索词统计
type Term struct {
	Term   string `json:"term"`
	Hits   int64  `json:"hits"`
	Misses int64  `json:"misses"`
}

// TopMisses：未命中次数最多的检索词，用于发现名称写法差异
func (s *Store) TopMisses(ctx context.Context, limit int) ([]Term, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `SELECT term, hits, misses FROM _sm_search_terms
        WHERE misses > 0 ORDER BY misses DESC, last_seen DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Term
	for rows.Next() {
		var t Term
		if err := rows.Scan(&t.Term, &t.Hits, &t.Misses); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
