// seed inserts a test user and a couple of weeks of mood entries into the
// local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/moodsapp/moods-server/internal/infrastructure/postgres"
)

const seedEmail = "seed@test.local"

type entrySpec struct {
	mood    int
	notes   string
	tags    []string
	daysAgo int
}

var entries = []entrySpec{
	// A gradual slump followed by recovery, enough history to make the
	// delta column interesting across several pages.
	{8, "great start to the week", []string{"work", "sunny"}, 14},
	{7, "", []string{"work"}, 13},
	{7, "quiet day", nil, 12},
	{5, "deadline stress", []string{"work", "stress"}, 11},
	{4, "slept badly", []string{"stress", "insomnia"}, 10},
	{3, "rough one", []string{"stress"}, 9},
	{4, "", nil, 8},
	{6, "weekend hike helped", []string{"outdoors", "exercise"}, 7},
	{7, "long run", []string{"exercise"}, 6},
	{6, "", []string{"work"}, 5},
	{8, "shipped the feature", []string{"work", "happy"}, 4},
	{9, "celebration dinner", []string{"happy", "friends"}, 3},
	{7, "", nil, 2},
	{8, "good momentum", []string{"work", "happy"}, 1},
	{7, "steady", nil, 0},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	// Upsert test user
	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (name, email)
		VALUES ('Seed User', $1)
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
		RETURNING id`,
		seedEmail,
	).Scan(&userID)
	if err != nil {
		log.Fatalf("upsert user: %v", err)
	}

	var inserted int
	for _, spec := range entries {
		createdAt := time.Now().AddDate(0, 0, -spec.daysAgo)

		var entryID int64
		err := pool.QueryRow(ctx, `
			INSERT INTO mood_entries (user_id, mood, notes, created_at)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			userID, spec.mood, spec.notes, createdAt,
		).Scan(&entryID)
		if err != nil {
			log.Fatalf("insert entry: %v", err)
		}

		for _, tag := range spec.tags {
			if _, err := pool.Exec(ctx, `
				INSERT INTO tags (name, metadata)
				VALUES ($1, '{}')
				ON CONFLICT (name) DO NOTHING`,
				tag,
			); err != nil {
				log.Fatalf("insert tag %s: %v", tag, err)
			}
			if _, err := pool.Exec(ctx, `
				INSERT INTO mood_entry_tags (mood_entry_id, tag_name)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`,
				entryID, tag,
			); err != nil {
				log.Fatalf("attach tag %s: %v", tag, err)
			}
		}
		inserted++
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:            %s\n", seedEmail)
	fmt.Printf("  User ID:         %s\n", userID)
	fmt.Printf("  Entries created: %d\n", inserted)
	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — request a login code (it is printed to the server log in local env):")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/code \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\"}'\n", seedEmail)
	fmt.Println()
	fmt.Println("  Step 2 — exchange the code for a token:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/auth/verify \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"code\":\"123456\"}'\n", seedEmail)
	fmt.Println("    # → {\"token\":\"eyJ...\",\"user\":{...}}")
	fmt.Println()
	fmt.Println("  Step 3 — page through the entries and watch the deltas:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s 'http://localhost:8080/mood-entries?first=5' -H \"Authorization: Bearer $JWT\"")
	fmt.Println("    # Use page_info.end_cursor as ?after= for the next page.")
}
