package main

import (
	"bufio"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/lib/pq"
)

// Разовая сверка победителей с записанным счётом. Сервис делает то же самое
// фоном, но после ручных правок базы удобно прогнать проверку вручную и
// посмотреть каждую исправленную строку.

const inconsistentQuery = `
	SELECT m.id, m.home_score, m.away_score, m.winner_team_id, m.home_team_id, m.away_team_id
	FROM matches m
	WHERE m.status = 'completed'
	  AND m.winner_team_id IS DISTINCT FROM CASE
		WHEN m.home_score > m.away_score THEN m.home_team_id
		WHEN m.away_score > m.home_score THEN m.away_team_id
		ELSE NULL
	  END
	ORDER BY m.id`

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	log.Println("=== Winner Reconciliation Tool ===")

	var totalCompleted int
	if err := db.QueryRow("SELECT COUNT(*) FROM matches WHERE status = 'completed'").Scan(&totalCompleted); err != nil {
		log.Fatalf("Failed to count completed matches: %v", err)
	}

	rows, err := db.Query(inconsistentQuery)
	if err != nil {
		log.Fatalf("Failed to query inconsistent matches: %v", err)
	}
	defer rows.Close()

	type brokenMatch struct {
		id         int
		homeScore  int
		awayScore  int
		winnerID   sql.NullInt64
		homeTeamID int
		awayTeamID int
	}

	var broken []brokenMatch
	for rows.Next() {
		var m brokenMatch
		if err := rows.Scan(&m.id, &m.homeScore, &m.awayScore, &m.winnerID, &m.homeTeamID, &m.awayTeamID); err != nil {
			log.Fatalf("Failed to scan match: %v", err)
		}
		broken = append(broken, m)
	}
	if err := rows.Err(); err != nil {
		log.Fatalf("Failed to iterate matches: %v", err)
	}

	log.Printf("Completed matches: %d", totalCompleted)
	log.Printf("Matches with inconsistent winner: %d", len(broken))

	if len(broken) == 0 {
		log.Println("✓ No reconciliation needed - all winners match the recorded scores")
		return
	}

	for _, m := range broken {
		stored := "NULL"
		if m.winnerID.Valid {
			stored = fmt.Sprintf("%d", m.winnerID.Int64)
		}
		log.Printf("  match %d: score %d-%d, stored winner %s", m.id, m.homeScore, m.awayScore, stored)
	}

	fmt.Printf("\nThis will UPDATE the winner of %d matches to match their scores.\n", len(broken))
	fmt.Print("Are you sure you want to continue? (yes/no): ")

	reader := bufio.NewReader(os.Stdin)
	response, _ := reader.ReadString('\n')
	response = strings.TrimSpace(strings.ToLower(response))

	if response != "yes" {
		log.Println("Reconciliation cancelled")
		return
	}

	log.Println("Starting reconciliation...")

	repaired := 0
	for _, m := range broken {
		var correct interface{}
		switch {
		case m.homeScore > m.awayScore:
			correct = m.homeTeamID
		case m.awayScore > m.homeScore:
			correct = m.awayTeamID
		default:
			correct = nil
		}

		tx, err := db.Begin()
		if err != nil {
			log.Fatalf("Failed to begin transaction for match %d: %v", m.id, err)
		}
		if _, err := tx.Exec("UPDATE matches SET winner_team_id = $1 WHERE id = $2", correct, m.id); err != nil {
			tx.Rollback()
			log.Printf("Warning: failed to repair match %d: %v", m.id, err)
			continue
		}
		// Протокол матча держим в согласованном виде с той же записью.
		if _, err := tx.Exec("UPDATE match_results SET winner_team_id = $1 WHERE match_id = $2", correct, m.id); err != nil {
			tx.Rollback()
			log.Printf("Warning: failed to repair result row for match %d: %v", m.id, err)
			continue
		}
		if err := tx.Commit(); err != nil {
			log.Printf("Warning: failed to commit repair for match %d: %v", m.id, err)
			continue
		}

		correctStr := "NULL (draw)"
		if correct != nil {
			correctStr = fmt.Sprintf("%v", correct)
		}
		log.Printf("✓ match %d: winner set to %s", m.id, correctStr)
		repaired++
	}

	var remaining int
	if err := db.QueryRow("SELECT COUNT(*) FROM (" + inconsistentQuery + ") AS broken").Scan(&remaining); err == nil {
		log.Printf("✓ Reconciliation complete! Repaired: %d, remaining inconsistent: %d", repaired, remaining)
	} else {
		log.Printf("✓ Reconciliation complete! Repaired: %d", repaired)
	}
}
