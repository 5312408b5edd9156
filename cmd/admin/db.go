package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required unless -db)")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	limit := fs.Int("limit", 20, "result limit")
	actor := fs.String("actor", "", "actor filter (audits, commands)")
	structureID := fs.String("structure", "", "structure id (history)")
	_ = fs.Parse(args)

	q := "ticks"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -world or -db")
			os.Exit(2)
		}
		path = filepath.Join(*dataDir, "worlds", *worldID, "index", "world.sqlite")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	if *limit <= 0 {
		*limit = 20
	}
	if err := runQuery(db, q, *limit, strings.TrimSpace(*actor), strings.TrimSpace(*structureID), printJSON); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type tickRow struct {
	Tick     uint64 `json:"tick"`
	Digest   string `json:"digest"`
	Joins    int    `json:"joins"`
	Leaves   int    `json:"leaves"`
	Commands int    `json:"commands"`
	Admin    int    `json:"admin"`
}

type auditRow struct {
	Tick        uint64     `json:"tick"`
	Actor       string     `json:"actor"`
	Action      string     `json:"action"`
	StructureID string     `json:"structure_id"`
	Piece       string     `json:"piece"`
	Pos         [3]float64 `json:"pos"`
	Yaw         float64    `json:"yaw"`
	Materials   int        `json:"materials"`
	Reason      string     `json:"reason,omitempty"`
}

type catalogRow struct {
	Name      string          `json:"name"`
	Digest    string          `json:"digest"`
	UpdatedAt string          `json:"updated_at"`
	JSON      json.RawMessage `json:"json"`
}

func runQuery(db *sql.DB, q string, limit int, actor, structureID string, emit func(any)) error {
	switch q {
	case "ticks":
		rows, err := db.Query(`SELECT tick,digest,joins,leaves,commands,admin FROM ticks ORDER BY tick DESC LIMIT ?`, limit)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r tickRow
			if err := rows.Scan(&r.Tick, &r.Digest, &r.Joins, &r.Leaves, &r.Commands, &r.Admin); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			emit(r)
		}
		return rows.Err()

	case "audits", "history":
		query := `SELECT tick,actor,action,structure_id,piece,x,y,z,yaw,materials,COALESCE(reason,'') FROM audits`
		var where []string
		var params []any
		if actor != "" {
			where = append(where, "actor = ?")
			params = append(params, actor)
		}
		if q == "history" {
			if structureID == "" {
				return fmt.Errorf("history needs -structure")
			}
			where = append(where, "structure_id = ?")
			params = append(params, structureID)
		}
		if len(where) > 0 {
			query += " WHERE " + strings.Join(where, " AND ")
		}
		if q == "history" {
			query += " ORDER BY tick, seq"
		} else {
			query += " ORDER BY tick DESC, seq DESC LIMIT ?"
			params = append(params, limit)
		}
		rows, err := db.Query(query, params...)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r auditRow
			if err := rows.Scan(&r.Tick, &r.Actor, &r.Action, &r.StructureID, &r.Piece, &r.Pos[0], &r.Pos[1], &r.Pos[2], &r.Yaw, &r.Materials, &r.Reason); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			emit(r)
		}
		return rows.Err()

	case "catalogs":
		rows, err := db.Query(`SELECT name,digest,updated_at,json FROM catalogs ORDER BY name`)
		if err != nil {
			return fmt.Errorf("query: %w", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r catalogRow
			var raw string
			if err := rows.Scan(&r.Name, &r.Digest, &r.UpdatedAt, &raw); err != nil {
				return fmt.Errorf("scan: %w", err)
			}
			r.JSON = json.RawMessage(raw)
			emit(r)
		}
		return rows.Err()

	default:
		return fmt.Errorf("unknown query: %s (ticks, audits, history, catalogs)", q)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
