package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// RunWithGolden executes a scenario, checks every scripted shot against
// its expected outcome, and compares the canonical circuit text against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, s *Scenario) {
	t.Helper()

	res, err := Run(s)
	if err != nil {
		t.Fatalf("run scenario: %v", err)
	}

	for i, shot := range s.Shots {
		o := res.Outcomes[i]
		if o.Accepted != shot.Expect.Accepted {
			t.Errorf("shot %d: accepted = %v, want %v", i, o.Accepted, shot.Expect.Accepted)
			continue
		}
		if o.Accepted && int(o.Value) != shot.Expect.Value {
			t.Errorf("shot %d: value = %d, want %d", i, o.Value, shot.Expect.Value)
		}
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, s.Name, res.Circuit.MarshalCanonical())
}
