package main

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// GameResult is one archived finished game.
type GameResult struct {
	ID            int64  `db:"id" json:"id"`
	RoomCode      string `db:"room_code" json:"roomCode"`
	Winner        string `db:"winner" json:"winner"`
	WinReason     string `db:"win_reason" json:"winReason"`
	GuestPolicies int    `db:"guest_policies" json:"guestPolicies"`
	StaffPolicies int    `db:"staff_policies" json:"staffPolicies"`
	PlayerCount   int    `db:"player_count" json:"playerCount"`
	FinishedAt    string `db:"finished_at" json:"finishedAt"`
}

// GameResultPlayer is one seat of an archived game.
type GameResultPlayer struct {
	ID       int64  `db:"id" json:"-"`
	ResultID int64  `db:"result_id" json:"-"`
	Name     string `db:"name" json:"name"`
	Role     string `db:"role" json:"role"`
	IsAgent  bool   `db:"is_agent" json:"isAgent"`
	Survived bool   `db:"survived" json:"survived"`
}

// HistoryEntry is one game with its seats, as served by /history.
type HistoryEntry struct {
	GameResult
	Players []GameResultPlayer `json:"players"`
}

func initDB() error {
	schema := `
	PRAGMA journal_mode=WAL;

	CREATE TABLE IF NOT EXISTS game_result (
		room_code TEXT NOT NULL,
		winner TEXT NOT NULL,
		win_reason TEXT NOT NULL,
		guest_policies INTEGER NOT NULL,
		staff_policies INTEGER NOT NULL,
		player_count INTEGER NOT NULL,
		finished_at TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS game_result_player (
		result_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		role TEXT NOT NULL,
		is_agent INTEGER NOT NULL DEFAULT 0,
		survived INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY (result_id) REFERENCES game_result(rowid)
	);
	`
	_, err := db.Exec(schema)
	return err
}

// recordGameResult archives a finished game with every seat's final
// standing. Archiving is best-effort; a storage failure never blocks
// the game-over broadcast.
func recordGameResult(room *Room) {
	if db == nil {
		return
	}
	gs := &room.State

	res, err := db.Exec(`INSERT INTO game_result
		(room_code, winner, win_reason, guest_policies, staff_policies, player_count, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		room.Code, string(gs.Winner), gs.WinReason, gs.GuestPolicies, gs.StaffPolicies,
		len(room.Players), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		logError("recordGameResult: insert game_result", err)
		return
	}
	resultID, err := res.LastInsertId()
	if err != nil {
		logError("recordGameResult: last insert id", err)
		return
	}

	for _, p := range room.Players {
		_, err := db.Exec(`INSERT INTO game_result_player
			(result_id, name, role, is_agent, survived) VALUES (?, ?, ?, ?, ?)`,
			resultID, p.Name, string(p.Role), p.Control == ControlAgent, p.IsAlive)
		if err != nil {
			logError("recordGameResult: insert game_result_player", err)
		}
	}

	LogDBState("after recordGameResult " + room.Code)
	log.Printf("Archived game %s: %s won (%s)", room.Code, gs.Winner, gs.WinReason)
}

func getGameResults(limit int) ([]HistoryEntry, error) {
	var results []GameResult
	err := db.Select(&results, `SELECT rowid as id, room_code, winner, win_reason,
		guest_policies, staff_policies, player_count, finished_at
		FROM game_result ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]HistoryEntry, 0, len(results))
	for _, r := range results {
		var players []GameResultPlayer
		err := db.Select(&players, `SELECT rowid as id, result_id, name, role, is_agent, survived
			FROM game_result_player WHERE result_id = ?`, r.ID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, HistoryEntry{GameResult: r, Players: players})
	}
	return entries, nil
}

// handleHistory serves the finished-game archive as JSON.
func handleHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := getGameResults(50)
	if err != nil {
		logError("handleHistory: getGameResults", err)
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(entries); err != nil {
		logError("handleHistory: encode", err)
	}
}
