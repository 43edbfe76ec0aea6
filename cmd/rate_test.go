package cmd

import "testing"

func TestRateCmdFlags(t *testing.T) {
	t.Parallel()

	if err := rateCmd.ParseFlags([]string{
		"--facility", "F-123",
		"--mode", "balanced",
		"--save",
		"--no-jitter",
	}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	facilityID, _ := rateCmd.Flags().GetString("facility")
	if facilityID != "F-123" {
		t.Fatalf("facility = %q, want F-123", facilityID)
	}

	mode, _ := rateCmd.Flags().GetString("mode")
	if mode != "balanced" {
		t.Fatalf("mode = %q, want balanced", mode)
	}

	save, _ := rateCmd.Flags().GetBool("save")
	if !save {
		t.Fatalf("save = false, want true")
	}

	noJitter, _ := rateCmd.Flags().GetBool("no-jitter")
	if !noJitter {
		t.Fatalf("no-jitter = false, want true")
	}
}

func TestBatchCmdFlags(t *testing.T) {
	t.Parallel()

	if err := batchCmd.ParseFlags([]string{
		"--mode", "standard",
		"--city", "Austin",
		"--workers", "8",
		"--limit", "100",
	}); err != nil {
		t.Fatalf("ParseFlags() error = %v", err)
	}

	workers, _ := batchCmd.Flags().GetInt("workers")
	if workers != 8 {
		t.Fatalf("workers = %d, want 8", workers)
	}

	limit, _ := batchCmd.Flags().GetInt("limit")
	if limit != 100 {
		t.Fatalf("limit = %d, want 100", limit)
	}

	city, _ := batchCmd.Flags().GetString("city")
	if city != "Austin" {
		t.Fatalf("city = %q, want Austin", city)
	}
}

func TestCommandsRegistered(t *testing.T) {
	t.Parallel()

	want := map[string]bool{
		"init-db":   false,
		"import":    false,
		"rate":      false,
		"ratings":   false,
		"batch":     false,
		"report":    false,
		"standards": false,
		"console":   false,
	}
	for _, sub := range rootCmd.Commands() {
		if _, ok := want[sub.Name()]; ok {
			want[sub.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("command %q not registered", name)
		}
	}
}
