// Package catalog loads the embedded tool catalog and threat database.
package catalog

import (
	_ "embed"
	"fmt"
	"regexp"

	"knoxshield/internal/models"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

//go:embed threatdb.yaml
var threatDBYAML []byte

const (
	ToolDeepScan      = "knoxdeepscan"
	ToolMalwareKiller = "malwareprocesskiller"
	ToolTraceWiper    = "privacytracewiper"
	ToolEmailBreach   = "emailbreachlookup"
	ToolAIChat        = "chatgptdesktop"
)

type catalogFile struct {
	Categories []models.ToolCategory `yaml:"categories"`
}

// Load parses the embedded catalog and stamps each tool with its category id.
func Load() ([]models.ToolCategory, error) {
	return Parse(catalogYAML)
}

// Parse decodes a catalog document.
func Parse(data []byte) ([]models.ToolCategory, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	seen := make(map[string]string)
	for ci := range file.Categories {
		cat := &file.Categories[ci]
		if cat.ID == "" {
			return nil, fmt.Errorf("category %d has no id", ci)
		}
		for ti := range cat.Tools {
			tool := &cat.Tools[ti]
			if tool.ID == "" {
				return nil, fmt.Errorf("tool %d in category %s has no id", ti, cat.ID)
			}
			if prev, ok := seen[tool.ID]; ok {
				return nil, fmt.Errorf("duplicate tool id %s in %s and %s", tool.ID, prev, cat.ID)
			}
			seen[tool.ID] = cat.ID
			tool.CategoryID = cat.ID
			if tool.Status == "" {
				tool.Status = models.StatusNotLoaded
			}
		}
	}
	return file.Categories, nil
}

type Signature struct {
	Name    string `yaml:"name" json:"name"`
	Pattern string `yaml:"pattern" json:"pattern"`
	re      *regexp.Regexp
}

type ThreatDB struct {
	MaliciousProcessNames    []string    `yaml:"maliciousProcessNames" json:"maliciousProcessNames"`
	SuspiciousStartupEntries []string    `yaml:"suspiciousStartupEntries" json:"suspiciousStartupEntries"`
	MalwareSignatures        []Signature `yaml:"malwareSignatures" json:"malwareSignatures"`
	CommonSafeProcessNames   []string    `yaml:"commonSafeProcessNames" json:"commonSafeProcessNames"`
	CommonSafeFilePaths      []string    `yaml:"commonSafeFilePaths" json:"commonSafeFilePaths"`
}

// LoadThreatDB parses the embedded threat database and compiles its signatures.
func LoadThreatDB() (*ThreatDB, error) {
	return ParseThreatDB(threatDBYAML)
}

func ParseThreatDB(data []byte) (*ThreatDB, error) {
	var db ThreatDB
	if err := yaml.Unmarshal(data, &db); err != nil {
		return nil, fmt.Errorf("failed to parse threat db: %w", err)
	}
	for i := range db.MalwareSignatures {
		sig := &db.MalwareSignatures[i]
		re, err := regexp.Compile("(?i)" + sig.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid signature %q: %w", sig.Name, err)
		}
		sig.re = re
	}
	return &db, nil
}

// MatchSignature returns the name of the first signature matching text.
func (db *ThreatDB) MatchSignature(text string) (string, bool) {
	for _, sig := range db.MalwareSignatures {
		if sig.re != nil && sig.re.MatchString(text) {
			return sig.Name, true
		}
	}
	return "", false
}

// IsSafeProcess reports whether name is on the allow list.
func (db *ThreatDB) IsSafeProcess(name string) bool {
	for _, safe := range db.CommonSafeProcessNames {
		if safe == name {
			return true
		}
	}
	return false
}

// IsMaliciousProcess reports whether name is a known malicious process.
func (db *ThreatDB) IsMaliciousProcess(name string) bool {
	for _, bad := range db.MaliciousProcessNames {
		if bad == name {
			return true
		}
	}
	return false
}
