package mysql

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

type Handler struct {
	Conn *sql.DB
}

func New(conn *sql.DB) *Handler {
	return &Handler{Conn: conn}
}

func (handler *Handler) PrepareAndExecute(ctx context.Context, statement string, args ...any) (sql.Result, error) {
	const op = "mysql.Handler.PrepareAndExecute"

	stmt, err := handler.Conn.PrepareContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	result, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

func (handler *Handler) PrepareAndQueryRow(ctx context.Context, statement string, args ...any) (*sql.Row, error) {
	const op = "mysql.Handler.PrepareAndQueryRow"

	stmt, err := handler.Conn.PrepareContext(ctx, statement)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer stmt.Close()

	return stmt.QueryRowContext(ctx, args...), nil
}

func (handler *Handler) StartTransaction(ctx context.Context) (*sql.Tx, error) {
	const op = "mysql.Handler.StartTransaction"

	tx, err := handler.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return tx, nil
}
