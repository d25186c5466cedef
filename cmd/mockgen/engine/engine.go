package engine

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"mis-reports/internal/registry"
)

type GeneratorConfig struct {
	Count       int     // records per collection
	Now         time.Time
	Seed        int64
	InvalidRate float64 // share of records with an unparseable date
}

// Envelope is the response shape a collection is served in.
type Envelope int

const (
	Bare Envelope = iota
	Data
	NestedData
	Records
	Beneficiaries
	Cases
)

var envelopeNames = []string{"bare", "data", "data.data", "records", "beneficiaries", "cases"}

func (e Envelope) String() string {
	if int(e) < len(envelopeNames) {
		return envelopeNames[e]
	}
	return fmt.Sprintf("envelope(%d)", int(e))
}

// Wrap places the records in the envelope's response shape.
func (e Envelope) Wrap(records []map[string]any) any {
	list := make([]any, len(records))
	for i, r := range records {
		list[i] = r
	}
	switch e {
	case Data:
		return map[string]any{"success": true, "data": list}
	case NestedData:
		return map[string]any{"success": true, "data": map[string]any{"data": list, "total": len(list)}}
	case Records:
		return map[string]any{"records": list, "count": len(list)}
	case Beneficiaries:
		return map[string]any{"beneficiaries": list}
	case Cases:
		return map[string]any{"cases": list}
	default:
		return list
	}
}

// Collection is the generated content of one backend collection.
type Collection struct {
	Module   registry.Module
	Category registry.Category
	Envelope Envelope
	Records  []map[string]any
}

// Dataset maps collection paths ("health/tuberculosis") to their content.
type Dataset map[string]*Collection

var (
	statuses   = []string{"active", "active", "pending", "completed", "completed", "Active", "on-hold"}
	firstNames = []string{"Asha", "Ravi", "Meena", "Kiran", "Suresh", "Lakshmi", "Arjun", "Fatima", "Joseph", "Priya"}
	lastNames  = []string{"Rao", "Naik", "Reddy", "Khan", "Das", "Patil", "Gowda", "Shetty"}
	habitats   = []string{"Indiranagar", "Gandhi Colony", "Ambedkar Nagar", "Old Town", "Riverside"}
	classes    = []string{"5", "6", "7", "8", "9", "10", "PUC-1"}
	treatments = []string{"ongoing", "completed", "referred", "defaulted"}
	extras     = map[string][]string{
		"examType":    {"NEET", "JEE", "KCET", "SSC"},
		"boardType":   {"State", "CBSE", "ICSE"},
		"diseaseType": {"Malaria", "Dengue", "Typhoid", "Diabetes"},
		"caseType":    {"Property", "Domestic", "Labour", "Documentation"},
		"groupType":   {"SHG", "Youth", "Women", "Farmers"},
	}
)

// Generate builds every registered collection. Envelopes rotate across
// collections so each response shape is served at least once.
func Generate(cfg GeneratorConfig) Dataset {
	if cfg.Now.IsZero() {
		cfg.Now = time.Now()
	}
	if cfg.Count <= 0 {
		cfg.Count = 50
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	reg := registry.New(nil)

	ds := make(Dataset)
	n := 0
	for _, m := range registry.Modules() {
		for _, c := range reg.Categories(m) {
			col := &Collection{
				Module:   m,
				Category: c,
				Envelope: Envelope(n % len(envelopeNames)),
			}
			for i := 0; i < cfg.Count; i++ {
				col.Records = append(col.Records, record(rng, cfg, m, c, i))
			}
			ds[c.Collection] = col
			n++
		}
	}
	return ds
}

func record(rng *rand.Rand, cfg GeneratorConfig, m registry.Module, c registry.Category, i int) map[string]any {
	rec := map[string]any{
		"status":     pick(rng, statuses),
		"wardNo":     fmt.Sprintf("%d", 1+rng.Intn(12)),
		"habitation": pick(rng, habitats),
	}
	if i%2 == 0 {
		rec["_id"] = fmt.Sprintf("%x", rng.Int63())
	} else {
		rec["id"] = fmt.Sprintf("%s-%04d", strings.ToUpper(c.Key[:2]), i+1)
	}

	first, last := pick(rng, firstNames), pick(rng, lastNames)
	switch {
	case c.Key == "study-centers":
		rec["centreName"] = fmt.Sprintf("%s Study Centre", pick(rng, habitats))
	case c.Key == "schools":
		rec["schoolName"] = fmt.Sprintf("GHPS %s", pick(rng, habitats))
	case c.Key == "health-camps":
		rec["campName"] = fmt.Sprintf("%s Health Camp", pick(rng, []string{"Eye", "Dental", "General", "Blood Donation"}))
	case c.Key == "sc-students":
		rec["studentName"] = first + " " + last
	case m == registry.Health && slices.Contains(c.FilterKeys, "treatmentStatus"):
		rec["patientName"] = first + " " + last
	case i%3 == 0:
		rec["name"] = first + " " + last
	default:
		rec["firstName"] = first
		if i%5 != 0 {
			rec["lastName"] = last
		}
	}

	for _, k := range c.FilterKeys {
		switch k {
		case "classOrGrade":
			rec[k] = pick(rng, classes)
		case "treatmentStatus":
			rec[k] = pick(rng, treatments)
		default:
			if vals, ok := extras[k]; ok {
				rec[k] = pick(rng, vals)
			}
		}
	}

	day := cfg.Now.AddDate(0, 0, -rng.Intn(365))
	switch {
	case rng.Float64() < cfg.InvalidRate:
		rec["date"] = "pending verification"
	case i%4 == 0:
		rec["createdAt"] = day.UTC().Format("2006-01-02T15:04:05.000Z")
	case i%4 == 1:
		rec["date"] = day.Format("02/01/2006")
	default:
		rec["date"] = day.Format("2006-01-02")
	}
	return rec
}

func pick(rng *rand.Rand, vals []string) string {
	return vals[rng.Intn(len(vals))]
}

// Save writes each collection as <outDir>/<module>/<category>.json in its envelope.
func Save(outDir string, ds Dataset) error {
	for path, col := range ds {
		target := filepath.Join(outDir, filepath.FromSlash(path)+".json")
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		f, err := os.Create(target)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(col.Envelope.Wrap(col.Records)); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
