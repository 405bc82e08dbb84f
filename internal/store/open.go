package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Open creates the Pool for cfg.Driver. No connection is dialed until the
// pool is first used.
func Open(ctx context.Context, cfg Config, logger *zap.Logger) (Pool, error) {
	var (
		p   Pool
		err error
	)

	switch dialect(cfg.Driver) {
	case dialectPostgres:
		var pg *PGPool
		if pg, err = OpenPostgres(ctx, cfg.URL, cfg, logger); err == nil {
			p = pg
		}
	case dialectMySQL:
		var my *SQLPool
		if my, err = OpenMySQL(cfg.URL, cfg, logger); err == nil {
			p = my
		}
	case dialectSQLite:
		var lite *SQLPool
		if lite, err = OpenSQLite(cfg.URL, cfg, logger); err == nil {
			p = lite
		}
	default:
		err = fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	return p, nil
}
