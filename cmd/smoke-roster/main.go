package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"rollcall.org/internal/roster"
	"rollcall.org/internal/roster/remote"
)

func main() {
	baseURL := os.Getenv("ROLLCALL_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	client := remote.New(baseURL)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	e, err := client.AddEmployee(ctx, roster.EmployeeInput{
		Name:       "Smoke Test",
		Code:       fmt.Sprintf("SMK-%d", time.Now().Unix()),
		Department: "Engineering",
		Position:   "Junior",
		JoinDate:   "2025-01-01",
	})
	if err != nil {
		log.Fatalf("add employee: %v", err)
	}

	today := time.Now().UTC().Format("2006-01-02")
	first, err := client.Mark(ctx, roster.MarkInput{EmployeeID: e.ID, Date: today, Status: roster.StatusPresent})
	if err != nil {
		log.Fatalf("mark: %v", err)
	}
	if !first.Created {
		log.Fatalf("first mark did not create a record")
	}

	second, err := client.Mark(ctx, roster.MarkInput{EmployeeID: e.ID, Date: today, Status: roster.StatusLate})
	if err != nil {
		log.Fatalf("re-mark: %v", err)
	}
	if second.Created || second.Record.ID != first.Record.ID {
		log.Fatalf("re-mark did not replace in place: created=%v id=%s want %s",
			second.Created, second.Record.ID, first.Record.ID)
	}

	stats, err := client.DailyStats(ctx, today)
	if err != nil {
		log.Fatalf("daily stats: %v", err)
	}
	if stats.Late < 1 {
		log.Fatalf("daily stats missed the marking: %+v", stats)
	}

	if err := client.DeleteEmployee(ctx, e.ID); err != nil {
		log.Fatalf("delete employee: %v", err)
	}
	records, err := client.ListRecords(ctx, roster.RecordFilter{EmployeeID: e.ID})
	if err != nil {
		log.Fatalf("list records: %v", err)
	}
	if len(records) != 0 {
		log.Fatalf("delete did not cascade: %d records left", len(records))
	}

	fmt.Printf("✅ rollcall smoke test passed: employee=%s record=%s\n", e.ID, first.Record.ID)
}
