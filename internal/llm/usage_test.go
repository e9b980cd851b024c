package llm

import (
	"sync"
	"testing"
)

func TestUsageAccumulates(t *testing.T) {
	var u Usage
	u.Add(10, 5)
	u.Add(3, 2)
	prompt, completion := u.Totals()
	if prompt != 13 || completion != 7 {
		t.Errorf("totals = (%d, %d), want (13, 7)", prompt, completion)
	}

	u.Reset()
	prompt, completion = u.Totals()
	if prompt != 0 || completion != 0 {
		t.Errorf("totals after reset = (%d, %d)", prompt, completion)
	}
}

func TestUsageConcurrentAdds(t *testing.T) {
	var u Usage
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			u.Add(1, 1)
		}()
	}
	wg.Wait()
	prompt, completion := u.Totals()
	if prompt != 100 || completion != 100 {
		t.Errorf("totals = (%d, %d), want (100, 100)", prompt, completion)
	}
}

func TestNewRequiresAPIKey(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for missing API key")
	}
	c, err := New(Config{APIKey: "k", Model: "m"})
	if err != nil {
		t.Fatal(err)
	}
	if c.Model() != "m" {
		t.Errorf("model = %q", c.Model())
	}
}
