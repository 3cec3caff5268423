package cmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/tutils/pdgen"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append(args, "--log-format=json", "--log-level=warn"))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSampleLines(t *testing.T) {
	out, err := execute(t, "sample", "uniform", "--seed=3", "--n=5", "--format=lines")
	if err != nil {
		t.Fatal(err)
	}
	want, _ := pdgen.NewGenerator(3).SampleKind(pdgen.KindUniform, pdgen.DefaultParams(), 5)
	lines := strings.Fields(out)
	if len(lines) != 5 {
		t.Fatalf("got %d lines: %q", len(lines), out)
	}
	for i, l := range lines {
		v, err := strconv.ParseFloat(l, 64)
		if err != nil || v != want.Floats[i] {
			t.Fatalf("line %d: got %s, want %v", i, l, want.Floats[i])
		}
	}
}

func TestSampleJSON(t *testing.T) {
	out, err := execute(t, "sample", "binomial", "--seed=4", "--n=7", "--m=10", "--p=0.3", "--format=json")
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Kind   string             `json:"kind"`
		Seed   uint32             `json:"seed"`
		Params map[string]float64 `json:"params"`
		Values []int64            `json:"values"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatal(err)
	}
	if got.Kind != "binomial" || got.Seed != 4 || got.Params["m"] != 10 || got.Params["p"] != 0.3 {
		t.Fatalf("unexpected header %+v", got)
	}
	if len(got.Values) != 7 {
		t.Fatalf("got %d values", len(got.Values))
	}
	for _, v := range got.Values {
		if v < 0 || v > 10 {
			t.Fatalf("value %d out of [0, 10]", v)
		}
	}
}

func TestSampleCSV(t *testing.T) {
	out, err := execute(t, "sample", "poisson", "--seed=1", "--n=3", "--format=csv")
	if err != nil {
		t.Fatal(err)
	}
	rows := strings.Split(strings.TrimSpace(out), "\n")
	if len(rows) != 4 || rows[0] != "index,value" || !strings.HasPrefix(rows[3], "2,") {
		t.Fatalf("unexpected csv %q", out)
	}
}

func TestSampleErrors(t *testing.T) {
	if _, err := execute(t, "sample", "gauss", "--seed=1", "--n=1", "--format=lines"); !errors.Is(err, pdgen.ErrUnknownKind) {
		t.Fatalf("unknown kind: %v", err)
	}
	if _, err := execute(t, "sample", "uniform", "--seed=1", "--n=-1", "--format=lines"); !errors.Is(err, pdgen.ErrInvalidCount) {
		t.Fatalf("negative n: %v", err)
	}
	if _, err := execute(t, "sample", "uniform", "--seed=1", "--n=1", "--format=xml"); err == nil {
		t.Fatal("unknown format accepted")
	}
	if _, err := execute(t, "sample", "uniform", "--seed=4294967296", "--n=1", "--format=lines"); err == nil {
		t.Fatal("oversized seed accepted")
	}
}

func TestTestAccepts(t *testing.T) {
	out, err := execute(t, "test", "uniform", "--seed=3", "--n=10000", "--bins=100", "--alpha=0.05")
	if err != nil {
		t.Fatalf("%v: %s", err, out)
	}
	if !strings.Contains(out, "ACCEPT") || !strings.Contains(out, "seed=3") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRunTestsRejects(t *testing.T) {
	seq := pdgen.Sequence{
		Kind:   pdgen.KindUniform,
		Params: pdgen.Params{A: 0, B: 2},
		Floats: make([]float64, 1000),
	}
	for i := range seq.Floats {
		seq.Floats[i] = 1.8
	}
	testBins = 0
	results, err := runTests(seq, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Accept {
		t.Fatalf("lumped data accepted: %v", results)
	}
}

func TestKinds(t *testing.T) {
	out, err := execute(t, "kinds")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"student-t", "m=1", "poisson", "lambda=1", "c=(a+b)/2", "discrete"} {
		if !strings.Contains(out, want) {
			t.Errorf("kinds output lacks %q:\n%s", want, out)
		}
	}
}
