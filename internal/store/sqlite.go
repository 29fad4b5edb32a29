package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"code.dogecoin.org/peerwire/internal/spec"
	sqlite3 "github.com/mattn/go-sqlite3"
)

type Address = spec.Address

// SELECT * FROM table WHERE id IN (SELECT id FROM table ORDER BY RANDOM() LIMIT 10)

type SQLiteStore struct {
	db  *sql.DB
	ctx context.Context
}

var _ spec.Store = &SQLiteStore{}

// WITHOUT ROWID: SQLite version 3.8.2 (2013-12-06) or later

const SQL_SCHEMA string = `
CREATE TABLE IF NOT EXISTS migration (
	version INTEGER NOT NULL DEFAULT 1
);
CREATE TABLE IF NOT EXISTS peer (
	address BLOB NOT NULL PRIMARY KEY,
	time INTEGER NOT NULL,
	services INTEGER NOT NULL,
	isnew BOOLEAN NOT NULL,
	version INTEGER NOT NULL DEFAULT 0,
	agent TEXT NOT NULL DEFAULT '',
	height INTEGER NOT NULL DEFAULT 0,
	relay BOOLEAN NOT NULL DEFAULT TRUE
);
CREATE INDEX IF NOT EXISTS peer_time_i ON peer (time);
CREATE INDEX IF NOT EXISTS peer_isnew_i ON peer (isnew);
`

var MIGRATIONS = []struct {
	ver   int
	query string
}{}

// NewSQLiteStore returns a spec.Store implementation that uses SQLite
func NewSQLiteStore(fileName string, ctx context.Context) (spec.Store, error) {
	backend := "sqlite3"
	db, err := sql.Open(backend, fileName)
	store := &SQLiteStore{db: db, ctx: ctx}
	if err != nil {
		return store, dbErr(err, "opening database")
	}
	if backend == "sqlite3" {
		// limit concurrent access until we figure out a way to start transactions
		// with the BEGIN CONCURRENT statement in Go. Avoids "database locked" errors.
		db.SetMaxOpenConns(1)
	}
	err = store.initSchema()
	return store, err
}

func (s *SQLiteStore) Close() {
	s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	return s.doTxn("init schema", func(tx *sql.Tx) error {
		// apply migrations
		verRow := tx.QueryRow("SELECT version FROM migration LIMIT 1")
		var version int
		err := verRow.Scan(&version)
		if err != nil {
			// first-time database init.
			// init schema (idempotent)
			_, err := tx.Exec(SQL_SCHEMA)
			if err != nil {
				return dbErr(err, "creating database schema")
			}
			// set up version table (idempotent)
			err = tx.QueryRow("SELECT version FROM migration LIMIT 1").Scan(&version)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					version = 1
					_, err = tx.Exec("INSERT INTO migration (version) VALUES (?)", version)
					if err != nil {
						return dbErr(err, "updating version")
					}
				} else {
					return dbErr(err, "querying version")
				}
			}
		}
		initVer := version
		for _, m := range MIGRATIONS {
			if version < m.ver {
				_, err = tx.Exec(m.query)
				if err != nil {
					return dbErr(err, fmt.Sprintf("applying migration %v", m.ver))
				}
				version = m.ver
			}
		}
		if version != initVer {
			_, err = tx.Exec("UPDATE migration SET version=?", version)
			if err != nil {
				return dbErr(err, "updating version")
			}
		}
		return nil
	})
}

func (s *SQLiteStore) WithCtx(ctx context.Context) spec.Store {
	return &SQLiteStore{
		db:  s.db,
		ctx: ctx,
	}
}

func IsConflict(err error) bool {
	if sqErr, isSq := err.(sqlite3.Error); isSq {
		if sqErr.Code == sqlite3.ErrBusy || sqErr.Code == sqlite3.ErrLocked {
			return true
		}
	}
	return false
}

func (s SQLiteStore) doTxn(name string, work func(tx *sql.Tx) error) error {
	limit := 120
	for {
		tx, err := s.db.Begin()
		if err != nil {
			if IsConflict(err) {
				s.Sleep(250 * time.Millisecond)
				limit--
				if limit != 0 {
					continue
				}
			}
			return dbErr(err, "cannot begin transaction: "+name)
		}
		defer tx.Rollback()
		err = work(tx)
		if err != nil {
			if IsConflict(err) {
				s.Sleep(250 * time.Millisecond)
				limit--
				if limit != 0 {
					continue
				}
			}
			return err
		}
		err = tx.Commit()
		if err != nil {
			if IsConflict(err) {
				s.Sleep(250 * time.Millisecond)
				limit--
				if limit != 0 {
					continue
				}
			}
			return dbErr(err, "cannot commit: "+name)
		}
		return nil
	}
}

func (s SQLiteStore) Sleep(dur time.Duration) {
	select {
	case <-s.ctx.Done():
	case <-time.After(dur):
	}
}

func dbErr(err error, where string) error {
	if errors.Is(err, spec.NotFoundError) {
		return err
	}
	if sqErr, isSq := err.(sqlite3.Error); isSq {
		if sqErr.Code == sqlite3.ErrConstraint {
			// MUST detect 'AlreadyExists' to fulfil the API contract!
			// Constraint violation, e.g. a duplicate key.
			return spec.WrapErr(spec.AlreadyExists, "SQLiteStore: already-exists", err)
		}
		if sqErr.Code == sqlite3.ErrBusy || sqErr.Code == sqlite3.ErrLocked {
			// SQLite has a single-writer policy, even in WAL (write-ahead) mode.
			// SQLite will return BUSY if the database is locked by another connection.
			// We treat this as a transient database conflict, and the caller should retry.
			return spec.WrapErr(spec.DBConflict, "SQLiteStore: db-conflict", err)
		}
	}
	return spec.WrapErr(spec.DBProblem, fmt.Sprintf("SQLiteStore: db-problem: %s", where), err)
}

// STORE INTERFACE

func (s SQLiteStore) PeerStats() (mapSize int, newPeers int, err error) {
	err = s.doTxn("PeerStats", func(tx *sql.Tx) error {
		row := tx.QueryRow("SELECT COUNT(address), COALESCE(SUM(isnew),0) FROM peer")
		err := row.Scan(&mapSize, &newPeers)
		if err != nil {
			// special case: always return nil (no stats) errors.
			if err != sql.ErrNoRows {
				log.Printf("[Store] PeerStats: %v", err)
			}
			return nil
		}
		return nil
	})
	return
}

func (s SQLiteStore) PeerList() (res []spec.Peer, err error) {
	err = s.doTxn("PeerList", func(tx *sql.Tx) error {
		rows, err := tx.Query("SELECT address,CAST(time AS INTEGER),services,version,agent,height,relay FROM peer")
		if err != nil {
			return fmt.Errorf("[Store] PeerList: query: %v", err)
		}
		defer rows.Close()
		for rows.Next() {
			var addr []byte
			var p spec.Peer
			err := rows.Scan(&addr, &p.Time, &p.Services, &p.Version, &p.Agent, &p.Height, &p.Relay)
			if err != nil {
				log.Printf("[Store] PeerList: scanning row: %v", err)
				continue
			}
			s_adr, err := spec.AddressFromKey(addr)
			if err != nil {
				log.Printf("[Store] bad peer address: %v", err)
				continue
			}
			p.Address = s_adr.String()
			res = append(res, p)
		}
		if err = rows.Err(); err != nil { // docs say this check is required!
			return fmt.Errorf("[Store] query: %v", err)
		}
		return nil
	})
	return
}

// AgentStats counts handshaken peers by user agent and protocol version.
func (s SQLiteStore) AgentStats() (agents []spec.AgentCount, versions []spec.VerCount, err error) {
	err = s.doTxn("AgentStats", func(tx *sql.Tx) error {
		agents, versions = nil, nil
		rows, err := tx.Query("SELECT agent, COUNT(*) AS n FROM peer WHERE version > 0 GROUP BY agent ORDER BY n DESC, agent")
		if err != nil {
			return fmt.Errorf("[Store] AgentStats: agents: %v", err)
		}
		defer rows.Close()
		for rows.Next() {
			var a spec.AgentCount
			if err := rows.Scan(&a.Agent, &a.Count); err != nil {
				return fmt.Errorf("[Store] AgentStats: scanning agent: %v", err)
			}
			agents = append(agents, a)
		}
		if err = rows.Err(); err != nil {
			return fmt.Errorf("[Store] AgentStats: agents: %v", err)
		}
		vrows, err := tx.Query("SELECT version, COUNT(*) AS n FROM peer WHERE version > 0 GROUP BY version ORDER BY n DESC, version DESC")
		if err != nil {
			return fmt.Errorf("[Store] AgentStats: versions: %v", err)
		}
		defer vrows.Close()
		for vrows.Next() {
			var v spec.VerCount
			if err := vrows.Scan(&v.Version, &v.Count); err != nil {
				return fmt.Errorf("[Store] AgentStats: scanning version: %v", err)
			}
			versions = append(versions, v)
		}
		return vrows.Err()
	})
	return
}

// TrimPeers expires peers not seen for MaxPeerDays.
func (s SQLiteStore) TrimPeers() (remPeers int64, err error) {
	err = s.doTxn("TrimPeers", func(tx *sql.Tx) error {
		unixTimeSec := time.Now().Unix()
		expireBefore := unixTimeSec - spec.MaxPeerDays*spec.SecondsPerDay
		res, err := tx.Exec("DELETE FROM peer WHERE time < ?", expireBefore)
		if err != nil {
			return fmt.Errorf("TrimPeers: DELETE peer: %v", err)
		}
		remPeers, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("TrimPeers: rows-affected: %v", err)
		}
		return nil
	})
	return
}

func (s SQLiteStore) AddPeer(address Address, unixTimeSec int64, services uint64) error {
	return s.doTxn("AddPeer", func(tx *sql.Tx) error {
		addrKey := spec.PeerKey(address)
		res, err := tx.Exec("UPDATE peer SET time=?, services=? WHERE address=? AND time<?", unixTimeSec, services, addrKey, unixTimeSec)
		if err != nil {
			return fmt.Errorf("update: %v", err)
		}
		num, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows-affected: %v", err)
		}
		if num == 0 {
			_, e := tx.Exec("INSERT OR IGNORE INTO peer (address, time, services, isnew) VALUES (?1,?2,?3,true)",
				addrKey, unixTimeSec, services)
			if e != nil {
				return fmt.Errorf("insert: %v", e)
			}
		}
		return nil
	})
}

// UpdatePeerVersion records a completed handshake; the peer is no longer new.
func (s SQLiteStore) UpdatePeerVersion(address Address, ver spec.PeerVersion) error {
	return s.doTxn("UpdatePeerVersion", func(tx *sql.Tx) error {
		addrKey := spec.PeerKey(address)
		unixTimeSec := time.Now().Unix()
		res, err := tx.Exec("UPDATE peer SET time=?, services=?, isnew=false, version=?, agent=?, height=?, relay=? WHERE address=?",
			unixTimeSec, ver.Services, ver.Version, ver.Agent, ver.Height, ver.Relay, addrKey)
		if err != nil {
			return fmt.Errorf("update: %v", err)
		}
		num, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows-affected: %v", err)
		}
		if num == 0 {
			_, e := tx.Exec("INSERT INTO peer (address, time, services, isnew, version, agent, height, relay) VALUES (?,?,?,false,?,?,?,?)",
				addrKey, unixTimeSec, ver.Services, ver.Version, ver.Agent, ver.Height, ver.Relay)
			if e != nil {
				return dbErr(e, "insert")
			}
		}
		return nil
	})
}

func (s SQLiteStore) ChoosePeer() (res Address, err error) {
	err = s.doTxn("ChoosePeer", func(tx *sql.Tx) error {
		row := tx.QueryRow("SELECT address FROM peer WHERE isnew=TRUE ORDER BY RANDOM() LIMIT 1")
		var addr []byte
		err := row.Scan(&addr)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				row = tx.QueryRow("SELECT address FROM peer WHERE isnew=FALSE ORDER BY RANDOM() LIMIT 1")
				err = row.Scan(&addr)
				if err != nil {
					if errors.Is(err, sql.ErrNoRows) {
						return spec.NotFoundError
					}
					return fmt.Errorf("query-not-new: %v", err)
				}
			} else {
				return fmt.Errorf("query-is-new: %v", err)
			}
		}
		res, err = spec.AddressFromKey(addr)
		if err != nil {
			return fmt.Errorf("invalid address: %v", err)
		}
		return nil
	})
	return
}
