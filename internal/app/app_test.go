package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/cartlift/internal/config"
)

// candleShopCSV has four multi-item baskets once cleaning drops the return
// and the line without a customer:
//
//	CANDLE 3, HOLDER 3, MATCHES 2, MUG 1 baskets
//	CANDLE+HOLDER 2 (lift 0.89), CANDLE+MATCHES 2 (lift 1.33),
//	HOLDER+MATCHES 1 (lift 0.67), HOLDER+MUG 1 (lift 1.33)
const candleShopCSV = `Invoice,StockCode,Description,Quantity,InvoiceDate,Price,Customer ID,Country
1001,A1,CANDLE,2,2010-12-01 08:26:00,2.55,17850,United Kingdom
1001,A2,HOLDER,1,2010-12-01 08:26:00,3.39,17850,United Kingdom
1001,A3,MATCHES,6,2010-12-01 08:26:00,0.42,17850,United Kingdom
1002,A1,CANDLE,1,2010-12-01 09:01:00,2.55,13047,United Kingdom
1002,A2,HOLDER,1,2010-12-01 09:01:00,3.39,13047,United Kingdom
1003,A1,CANDLE,4,2010-12-02 10:15:00,2.55,12583,France
1003,A3,MATCHES,12,2010-12-02 10:15:00,0.42,12583,France
1004,A2,HOLDER,2,2010-12-03 11:30:00,3.39,13748,United Kingdom
1004,A4,MUG,1,2010-12-03 11:30:00,1.65,13748,United Kingdom
C1005,A4,MUG,-1,2010-12-04 12:00:00,1.65,13748,United Kingdom
1006,A4,MUG,3,2010-12-04 12:30:00,1.65,,United Kingdom
`

// setupTestConfig points the commands at a temp dataset and database.
func setupTestConfig(t *testing.T, dataset string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))

	source := filepath.Join(dir, "transactions.csv")
	if err := os.WriteFile(source, []byte(dataset), 0644); err != nil {
		t.Fatalf("failed to write dataset: %v", err)
	}

	c := config.Default()
	c.Data.Source = source
	c.Data.Sheets = nil
	c.Training.TopProducts = 0
	c.Training.SampleInvoices = 0
	c.Store.Path = filepath.Join(dir, "data", "cartlift.db")

	orig := cfg
	cfg = c
	t.Cleanup(func() { cfg = orig })
	return c
}

// trainTestStore trains the candle shop dataset into the test database.
func trainTestStore(t *testing.T) *config.Config {
	t.Helper()
	c := setupTestConfig(t, candleShopCSV)
	var err error
	captureStdout(t, func() { err = runTrain(nil, nil) })
	if err != nil {
		t.Fatalf("runTrain() failed: %v", err)
	}
	return c
}

// captureStdout replaces os.Stdout with a pipe during f(), then restores it
// and returns all bytes written to stdout.
func captureStdout(t *testing.T, f func()) string {
	t.Helper()
	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}
	os.Stdout = w
	defer func() { os.Stdout = origStdout }()

	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		buf.ReadFrom(r)
		done <- buf.String()
	}()

	f()

	w.Close()
	return <-done
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
