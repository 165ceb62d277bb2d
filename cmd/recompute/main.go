package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"geoclock.com/geoclock/core"
	"geoclock.com/geoclock/engine"
	"geoclock.com/geoclock/utils"
)

func main() {
	startStr := flag.String("start", "", "First date to recompute (YYYY-MM-DD). Defaults to yesterday.")
	endStr := flag.String("end", "", "Last date to recompute (YYYY-MM-DD). Defaults to start.")
	usersStr := flag.String("users", "", "Comma-separated user ids. Empty means every affected user.")
	flag.Parse()

	start := utils.BusinessNow().AddDate(0, 0, -1)
	if *startStr != "" {
		var err error
		start, err = utils.ParseDateKey(*startStr)
		if err != nil {
			panic(fmt.Sprintf("Invalid start date: %v", err))
		}
	}
	end := start
	if *endStr != "" {
		var err error
		end, err = utils.ParseDateKey(*endStr)
		if err != nil {
			panic(fmt.Sprintf("Invalid end date: %v", err))
		}
	}
	if end.Before(start) {
		panic("end date is before start date")
	}

	var userIDs []uint
	if *usersStr != "" {
		for _, part := range strings.Split(*usersStr, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
			if err != nil {
				panic(fmt.Sprintf("Invalid user id %q: %v", part, err))
			}
			userIDs = append(userIDs, uint(id))
		}
	}

	fmt.Printf("[INFO] recomputing sessions for %s..%s\n", utils.DateKey(start), utils.DateKey(end))

	db := core.MustConnectDB(os.Getenv("DSN"))

	started := time.Now()
	report, err := engine.RebuildRange(db, engine.RebuildOptions{
		StartDate: start,
		EndDate:   end,
		UserIDs:   userIDs,
	})
	if err != nil {
		fmt.Printf("[ERROR] rebuilt %d keys, failed at %s: %v\n", len(report.Rebuilt), report.Failed, err)
		os.Exit(1)
	}

	fmt.Printf("[INFO] rebuilt %d keys in %s\n", len(report.Rebuilt), time.Since(started).Round(time.Millisecond))
}
