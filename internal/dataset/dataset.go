// Package dataset loads the job-listing CSV the dashboards are built from.
package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/ayush/hi-jobs-dashboard/backend/internal/models"
)

// ObjectStore is the blob store the dataset may live in.
type ObjectStore interface {
	Exists(ctx context.Context, key string) (bool, error)
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, error)
}

// Dataset is the raw CSV and its parsed listings.
type Dataset struct {
	Raw      []byte
	Listings []models.JobListing
	Source   string
}

// Loader reads the dataset from an object store when one is configured and
// from a local file otherwise. A missing object is seeded from the file.
type Loader struct {
	Path    string
	Object  string
	Objects ObjectStore
	Log     *slog.Logger
}

// Load returns the dataset. It never fails for a missing source: with no
// readable CSV the dataset is empty and the dashboards render empty views.
// Only a CSV that cannot be parsed is an error.
func (l *Loader) Load(ctx context.Context) (*Dataset, error) {
	raw, source := l.read(ctx)
	if raw == nil {
		l.Log.Warn("dataset unavailable, serving empty dashboards", "path", l.Path, "object", l.Object)
		return &Dataset{Raw: []byte{}, Listings: []models.JobListing{}, Source: "none"}, nil
	}
	listings, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", source, err)
	}
	l.Log.Info("dataset loaded", "source", source, "listings", len(listings), "bytes", len(raw))
	return &Dataset{Raw: raw, Listings: listings, Source: source}, nil
}

func (l *Loader) read(ctx context.Context) ([]byte, string) {
	if l.Objects != nil && l.Object != "" {
		raw, err := l.fromObjectStore(ctx)
		if err == nil {
			return raw, "object:" + l.Object
		}
		l.Log.Warn("dataset object store read failed, using local file", "object", l.Object, "error", err)
	}
	raw, err := os.ReadFile(l.Path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			l.Log.Warn("dataset read failed", "path", l.Path, "error", err)
		}
		return nil, ""
	}
	return raw, "file:" + l.Path
}

func (l *Loader) fromObjectStore(ctx context.Context) ([]byte, error) {
	ok, err := l.Objects.Exists(ctx, l.Object)
	if err != nil {
		return nil, err
	}
	if ok {
		return l.Objects.Download(ctx, l.Object)
	}

	raw, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("object %s missing and no local copy: %w", l.Object, err)
	}
	if err := l.Objects.Upload(ctx, l.Object, raw, "text/csv"); err != nil {
		return nil, err
	}
	l.Log.Info("dataset uploaded to object store", "object", l.Object, "bytes", len(raw))
	return raw, nil
}

type column int

const (
	colState column = iota
	colCity
	colRegion
	colYear
	colTitle
	colOpenings
	colGrowth
	colAvgSalary
	colMedianSalary
	colEmployment
	colRemote
	colExperience
	colSkills
	numColumns
)

// headerAliases maps squashed header names to columns.
var headerAliases = map[string]column{
	"state":            colState,
	"city":             colCity,
	"region":           colRegion,
	"year":             colYear,
	"jobtitle":         colTitle,
	"title":            colTitle,
	"role":             colTitle,
	"openings":         colOpenings,
	"jobopenings":      colOpenings,
	"numberofopenings": colOpenings,
	"growth":           colGrowth,
	"growthpercent":    colGrowth,
	"growthrate":       colGrowth,
	"jobgrowth":        colGrowth,
	"averagesalary":    colAvgSalary,
	"avgsalary":        colAvgSalary,
	"salary":           colAvgSalary,
	"mediansalary":     colMedianSalary,
	"employmenttype":   colEmployment,
	"jobtype":          colEmployment,
	"remote":           colRemote,
	"remoteflag":       colRemote,
	"isremote":         colRemote,
	"remotework":       colRemote,
	"experiencelevel":  colExperience,
	"experience":       colExperience,
	"keyskills":        colSkills,
	"skills":           colSkills,
}

// Parse reads listings from CSV with a header row. Columns are matched by
// name, ignoring case and punctuation; unknown columns are skipped. Rows
// without a job title are dropped and unparseable numbers read as zero.
func Parse(r io.Reader) ([]models.JobListing, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return []models.JobListing{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var idx [numColumns]int
	for i := range idx {
		idx[i] = -1
	}
	for i, h := range header {
		if c, ok := headerAliases[squashHeader(h)]; ok && idx[c] < 0 {
			idx[c] = i
		}
	}
	if idx[colTitle] < 0 {
		return nil, errors.New("missing job title column")
	}

	out := []models.JobListing{}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		get := func(c column) string {
			if i := idx[c]; i >= 0 && i < len(rec) {
				return strings.TrimSpace(rec[i])
			}
			return ""
		}
		title := get(colTitle)
		if title == "" {
			continue
		}
		out = append(out, models.JobListing{
			State:           get(colState),
			City:            get(colCity),
			Region:          get(colRegion),
			Year:            int(number(get(colYear))),
			JobTitle:        title,
			Openings:        int(number(get(colOpenings))),
			GrowthPercent:   number(get(colGrowth)),
			AverageSalary:   number(get(colAvgSalary)),
			MedianSalary:    number(get(colMedianSalary)),
			EmploymentType:  get(colEmployment),
			Remote:          truthy(get(colRemote)),
			ExperienceLevel: get(colExperience),
			KeySkills:       get(colSkills),
		})
	}
	return out, nil
}

func squashHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, h)
}

// number parses "$120,500", "7.5%" and plain numbers.
func number(s string) float64 {
	s = strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func truthy(s string) bool {
	switch strings.ToLower(s) {
	case "true", "yes", "y", "1", "remote":
		return true
	}
	return false
}
