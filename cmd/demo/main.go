// Command demo seeds a running rollcall server with a small roster and a few
// weeks of plausible attendance, then prints the monthly summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"rollcall.org/internal/report"
	"rollcall.org/internal/roster"
	"rollcall.org/internal/roster/remote"
)

var seedRoster = []roster.EmployeeInput{
	{Name: "Ada Lovelace", Code: "E-001", Department: "Engineering", Position: "Manager", JoinDate: "2023-02-01"},
	{Name: "Grace Hopper", Code: "E-002", Department: "Engineering", Position: "Senior", JoinDate: "2023-06-12"},
	{Name: "Edsger Dijkstra", Code: "E-003", Department: "Operations", Position: "Senior", JoinDate: "2024-01-08"},
	{Name: "Barbara Liskov", Code: "E-004", Department: "Sales", Position: "Junior", JoinDate: "2024-09-15"},
	{Name: "Alan Turing", Code: "E-005", Department: "HR", Position: "Intern", JoinDate: "2025-01-20"},
}

func main() {
	log.SetFlags(0)
	var (
		baseURL = flag.String("url", envOr("ROLLCALL_API_URL", "http://localhost:8080"), "rollcall API base URL")
		weeks   = flag.Int("weeks", 4, "weeks of attendance history to generate")
		reset   = flag.Bool("reset", false, "clear all existing data first")
	)
	flag.Parse()

	client := remote.New(*baseURL)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if *reset {
		if err := client.ClearAll(ctx); err != nil {
			log.Fatalf("clear data: %v", err)
		}
		log.Println("cleared existing data")
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	employees := make([]roster.Employee, 0, len(seedRoster))
	for _, in := range seedRoster {
		e, err := client.AddEmployee(ctx, in)
		if err != nil {
			log.Fatalf("add %s: %v", in.Name, err)
		}
		employees = append(employees, e)
	}
	log.Printf("seeded %d employees", len(employees))

	marked := 0
	today := time.Now().UTC()
	for day := 0; day < *weeks*7; day++ {
		d := today.AddDate(0, 0, -day)
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		date := d.Format("2006-01-02")
		for _, e := range employees {
			if _, err := client.Mark(ctx, roster.MarkInput{
				EmployeeID: e.ID,
				Date:       date,
				Status:     randomStatus(rng),
			}); err != nil {
				log.Fatalf("mark %s on %s: %v", e.Name, date, err)
			}
			marked++
		}
	}
	log.Printf("marked %d attendance records across %d weeks", marked, *weeks)

	summary, err := client.Summary(ctx, report.ModeMonthly, "")
	if err != nil {
		log.Fatalf("summary: %v", err)
	}
	fmt.Printf("monthly summary %s .. %s\n", summary.Start, summary.End)
	for _, s := range summary.Summaries {
		fmt.Printf("  %-18s %-12s rate=%3d%% marked=%d\n", s.Name, s.Department, s.Rate, s.MarkedDays)
	}
}

// randomStatus skews heavily toward present, the way a real office looks.
func randomStatus(rng *rand.Rand) roster.Status {
	switch n := rng.Intn(100); {
	case n < 70:
		return roster.StatusPresent
	case n < 80:
		return roster.StatusWFH
	case n < 88:
		return roster.StatusLate
	case n < 95:
		return roster.StatusLeave
	default:
		return roster.StatusAbsent
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
