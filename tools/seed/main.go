package main

import (
	"database/sql"
	"flag"
	"log"
	"os"
	"time"

	_ "github.com/lib/pq"
)

// Накатывает схему и заполняет базу демонстрационными данными для локальной
// разработки. На непустой базе вставки упадут на уникальных ограничениях —
// для повторного прогона есть флаг -fresh.

func main() {
	schemaPath := flag.String("schema", "db/schema.sql", "path to the schema file")
	withDemo := flag.Bool("demo", true, "insert demo teams, players and matches")
	fresh := flag.Bool("fresh", false, "truncate all tables before seeding")
	flag.Parse()

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

	log.Println("=== Database Seed Tool ===")

	schema, err := os.ReadFile(*schemaPath)
	if err != nil {
		log.Fatalf("Failed to read schema file %s: %v", *schemaPath, err)
	}
	if _, err := db.Exec(string(schema)); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Printf("✓ Schema applied from %s", *schemaPath)

	if *fresh {
		_, err := db.Exec(`TRUNCATE notifications, match_lineups, frame_results, match_results, matches, players, teams, users RESTART IDENTITY CASCADE`)
		if err != nil {
			log.Fatalf("Failed to truncate tables: %v", err)
		}
		log.Println("✓ Existing data truncated")
	}

	if !*withDemo {
		log.Println("Demo data skipped")
		return
	}

	teams := []struct {
		name     string
		division string
	}{
		{"Rack City", "Premier"},
		{"Chalk & Awe", "Premier"},
		{"Break Room", "Premier"},
		{"Corner Pocket", "Division One"},
		{"Safety Net", "Division One"},
	}

	teamIDs := make(map[string]int, len(teams))
	for _, t := range teams {
		var id int
		err := db.QueryRow(
			`INSERT INTO teams (name, division) VALUES ($1, $2) RETURNING id`,
			t.name, t.division,
		).Scan(&id)
		if err != nil {
			log.Fatalf("Failed to insert team %q: %v", t.name, err)
		}
		teamIDs[t.name] = id
	}
	log.Printf("✓ Inserted %d teams", len(teams))

	players := []struct {
		team      string
		firstName string
		lastName  string
		nickname  string
	}{
		{"Rack City", "Dmitry", "Volkov", "The Hammer"},
		{"Rack City", "Olga", "Sereda", ""},
		{"Chalk & Awe", "Marcus", "Bell", "Chalky"},
		{"Chalk & Awe", "Ivan", "Petrov", ""},
		{"Break Room", "Lena", "Hoff", ""},
		{"Break Room", "Tom", "Grady", "Slim"},
		{"Corner Pocket", "Nikita", "Orlov", ""},
		{"Safety Net", "Anya", "Malk", ""},
	}
	for _, p := range players {
		var nickname interface{}
		if p.nickname != "" {
			nickname = p.nickname
		}
		_, err := db.Exec(
			`INSERT INTO players (team_id, first_name, last_name, nickname) VALUES ($1, $2, $3, $4)`,
			teamIDs[p.team], p.firstName, p.lastName, nickname,
		)
		if err != nil {
			log.Fatalf("Failed to insert player %s %s: %v", p.firstName, p.lastName, err)
		}
	}
	log.Printf("✓ Inserted %d players", len(players))

	now := time.Now()
	matches := []struct {
		home      string
		away      string
		daysAgo   int
		homeScore int
		awayScore int
		completed bool
	}{
		{"Rack City", "Chalk & Awe", 14, 13, 12, true},
		{"Break Room", "Rack City", 7, 12, 13, true},
		{"Chalk & Awe", "Break Room", 3, 12, 12, true},
		{"Corner Pocket", "Safety Net", 1, 15, 10, true},
		{"Rack City", "Break Room", -7, 0, 0, false},
		{"Safety Net", "Corner Pocket", -14, 0, 0, false},
	}
	for _, m := range matches {
		status := "scheduled"
		var winner interface{}
		if m.completed {
			status = "completed"
			switch {
			case m.homeScore > m.awayScore:
				winner = teamIDs[m.home]
			case m.awayScore > m.homeScore:
				winner = teamIDs[m.away]
			}
		}
		var matchID int
		err := db.QueryRow(
			`INSERT INTO matches (home_team_id, away_team_id, match_date, status, home_score, away_score, winner_team_id)
			 VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
			teamIDs[m.home], teamIDs[m.away], now.AddDate(0, 0, -m.daysAgo), status, m.homeScore, m.awayScore, winner,
		).Scan(&matchID)
		if err != nil {
			log.Fatalf("Failed to insert match %s vs %s: %v", m.home, m.away, err)
		}
		if m.completed {
			_, err := db.Exec(
				`INSERT INTO match_results (match_id, home_score, away_score, winner_team_id, is_approved)
				 VALUES ($1, $2, $3, $4, TRUE)`,
				matchID, m.homeScore, m.awayScore, winner,
			)
			if err != nil {
				log.Fatalf("Failed to insert result for match %d: %v", matchID, err)
			}
		}
	}
	log.Printf("✓ Inserted %d matches", len(matches))

	log.Println("=== Seed Complete ===")
}
