package host

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"utcl/internal/interp"
	"utcl/internal/value"
)

// dbState holds the open connections and transactions of one interpreter.
// Handles are small integers issued in order; a handle with an open
// transaction routes query/exec through the transaction until commit or
// rollback.
type dbState struct {
	nextID int64
	conns  map[int64]*sql.DB
	txs    map[int64]*sql.Tx
}

// RegisterDB installs the result-archiving command on an interpreter:
//
//	db connect driver dsn       open a connection, result is a handle
//	db query handle sql ?arg?.. run a query, result is a list of row lists
//	db exec handle sql ?arg?..  run a statement, result is rows affected
//	db begin handle             start a transaction on the handle
//	db commit handle            commit it
//	db rollback handle          roll it back
//	db close handle             close the connection
//
// Drivers sqlite3, mysql and postgres are linked in.
func RegisterDB(i *interp.Interp) {
	st := &dbState{conns: make(map[int64]*sql.DB), txs: make(map[int64]*sql.Tx)}
	i.Register("db", 3, -1, cmdDB, st)
}

func (st *dbState) handle(args *value.Value) (int64, *sql.DB, bool) {
	id := value.ListIndex(args, 2).Int()
	db, ok := st.conns[id]
	return id, db, ok
}

func sqlParams(args *value.Value, from int) []any {
	items := value.ListItems(args)[from:]
	params := make([]any, len(items))
	for k, item := range items {
		params[k] = item.String()
	}
	return params
}

func cmdDB(i *interp.Interp, args *value.Value, data any) interp.Flow {
	st := data.(*dbState)
	argc := value.ListLength(args)
	switch sub := value.ListIndex(args, 1).String(); sub {
	case "connect":
		if argc != 4 {
			return i.Fail(interp.CodeBadParam, "db")
		}
		driver := value.ListIndex(args, 2).String()
		dsn := value.ListIndex(args, 3).String()
		db, err := sql.Open(driver, dsn)
		if err != nil {
			return hostFail(i, fmt.Errorf("open %s: %w", driver, err))
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return hostFail(i, fmt.Errorf("ping %s: %w", driver, err))
		}
		st.nextID++
		st.conns[st.nextID] = db
		slog.Debug("db connected", slog.String("driver", driver), slog.Int64("handle", st.nextID))
		return i.SetResult(value.FromInt(st.nextID))

	case "query":
		if argc < 4 {
			return i.Fail(interp.CodeBadParam, "db")
		}
		id, db, ok := st.handle(args)
		if !ok {
			return hostFail(i, fmt.Errorf("invalid connection handle %d", id))
		}
		query := value.ListIndex(args, 3).String()
		params := sqlParams(args, 4)
		var rows *sql.Rows
		var err error
		if tx, inTx := st.txs[id]; inTx {
			rows, err = tx.Query(query, params...)
		} else {
			rows, err = db.Query(query, params...)
		}
		if err != nil {
			return hostFail(i, fmt.Errorf("query: %w", err))
		}
		defer rows.Close()
		out, err := renderRows(rows)
		if err != nil {
			return hostFail(i, fmt.Errorf("scan: %w", err))
		}
		return i.SetResult(out)

	case "exec":
		if argc < 4 {
			return i.Fail(interp.CodeBadParam, "db")
		}
		id, db, ok := st.handle(args)
		if !ok {
			return hostFail(i, fmt.Errorf("invalid connection handle %d", id))
		}
		query := value.ListIndex(args, 3).String()
		params := sqlParams(args, 4)
		var res sql.Result
		var err error
		if tx, inTx := st.txs[id]; inTx {
			res, err = tx.Exec(query, params...)
		} else {
			res, err = db.Exec(query, params...)
		}
		if err != nil {
			return hostFail(i, fmt.Errorf("exec: %w", err))
		}
		affected, _ := res.RowsAffected()
		return i.SetResult(value.FromInt(affected))

	case "begin":
		id, db, ok := st.handle(args)
		if !ok {
			return hostFail(i, fmt.Errorf("invalid connection handle %d", id))
		}
		if _, inTx := st.txs[id]; inTx {
			return hostFail(i, fmt.Errorf("handle %d already has a transaction", id))
		}
		tx, err := db.Begin()
		if err != nil {
			return hostFail(i, fmt.Errorf("begin: %w", err))
		}
		st.txs[id] = tx
		return i.SetResult(value.Empty())

	case "commit":
		id := value.ListIndex(args, 2).Int()
		tx, inTx := st.txs[id]
		if !inTx {
			return hostFail(i, fmt.Errorf("handle %d has no transaction", id))
		}
		delete(st.txs, id)
		if err := tx.Commit(); err != nil {
			return hostFail(i, fmt.Errorf("commit: %w", err))
		}
		return i.SetResult(value.Empty())

	case "rollback":
		id := value.ListIndex(args, 2).Int()
		tx, inTx := st.txs[id]
		if !inTx {
			return hostFail(i, fmt.Errorf("handle %d has no transaction", id))
		}
		delete(st.txs, id)
		if err := tx.Rollback(); err != nil {
			return hostFail(i, fmt.Errorf("rollback: %w", err))
		}
		return i.SetResult(value.Empty())

	case "close":
		id, db, ok := st.handle(args)
		if !ok {
			return hostFail(i, fmt.Errorf("invalid connection handle %d", id))
		}
		if tx, inTx := st.txs[id]; inTx {
			tx.Rollback()
			delete(st.txs, id)
		}
		delete(st.conns, id)
		if err := db.Close(); err != nil {
			return hostFail(i, fmt.Errorf("close: %w", err))
		}
		return i.SetResult(value.Empty())
	}
	return i.Fail(interp.CodeBadParam, "db")
}

// renderRows flattens a result set into a list of row lists, every column
// rendered as text with NULL as the empty element.
func renderRows(rows *sql.Rows) (*value.Value, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := value.Empty()
	raw := make([]sql.NullString, len(cols))
	ptrs := make([]any, len(cols))
	for k := range raw {
		ptrs[k] = &raw[k]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		row := value.Empty()
		for _, cell := range raw {
			value.ListAppend(row, value.New(cell.String))
		}
		value.ListAppend(out, row)
	}
	return out, rows.Err()
}
