package reporter

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"dupfind/internal/detector"
	"dupfind/pkg/utils"
)

type exportFile struct {
	Path string `json:"path" yaml:"path"`
	Size int64  `json:"size" yaml:"size"`
}

type exportPair struct {
	Source string `json:"source" yaml:"source"`
	Other  string `json:"other" yaml:"other"`
	Size   int64  `json:"size" yaml:"size"`
}

type exportFingerprint struct {
	Size int64  `json:"size" yaml:"size"`
	Hash string `json:"hash" yaml:"hash"`
}

type exportSet struct {
	Identifier       string                  `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Part             string                  `json:"part,omitempty" yaml:"part,omitempty"`
	MatchType        string                  `json:"match_type" yaml:"match_type"`
	Confidence       float64                 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
	SourceCategory   string                  `json:"source_category,omitempty" yaml:"source_category,omitempty"`
	Fingerprint      *exportFingerprint      `json:"fingerprint,omitempty" yaml:"fingerprint,omitempty"`
	Status           string                  `json:"status" yaml:"status"`
	SourceFile       string                  `json:"source_file,omitempty" yaml:"source_file,omitempty"`
	FilesByDirectory map[string][]exportFile `json:"files_by_directory" yaml:"files_by_directory"`
	HardlinkPairs    []exportPair            `json:"hardlink_pairs" yaml:"hardlink_pairs"`
	CopyPairs        []exportPair            `json:"copy_pairs" yaml:"copy_pairs"`
	WastedBytes      int64                   `json:"wasted_bytes" yaml:"wasted_bytes"`
}

type exportDocument struct {
	Timestamp            string       `json:"timestamp" yaml:"timestamp"`
	Source               string       `json:"source" yaml:"source"`
	Targets              []string     `json:"targets" yaml:"targets"`
	Sets                 []exportSet  `json:"sets" yaml:"sets"`
	UnmatchedFiles       []exportFile `json:"unmatched_files" yaml:"unmatched_files"`
	TotalWastedBytes     int64        `json:"total_wasted_bytes" yaml:"total_wasted_bytes"`
	TotalWastedFormatted string       `json:"total_wasted_formatted" yaml:"total_wasted_formatted"`
}

func buildDocument(result *detector.Result, sourceDir string, targetDirs []string) exportDocument {
	doc := exportDocument{
		Timestamp:            time.Now().Format(time.RFC3339),
		Source:               sourceDir,
		Targets:              targetDirs,
		Sets:                 []exportSet{},
		UnmatchedFiles:       []exportFile{},
		TotalWastedBytes:     result.TotalWasted(),
		TotalWastedFormatted: utils.FormatBytes(result.TotalWasted()),
	}

	for _, set := range result.Sets {
		es := exportSet{
			Identifier:       set.Identifier,
			Part:             set.Part.String(),
			MatchType:        string(set.MatchType),
			Confidence:       set.Confidence,
			SourceCategory:   string(set.Category),
			Status:           string(set.Status()),
			FilesByDirectory: make(map[string][]exportFile),
			HardlinkPairs:    []exportPair{},
			CopyPairs:        []exportPair{},
			WastedBytes:      set.WastedSpace,
		}
		if set.Fingerprint != nil {
			es.Fingerprint = &exportFingerprint{Size: set.Fingerprint.Size, Hash: set.Fingerprint.Hash}
		}
		if set.SourceFile != nil {
			es.SourceFile = set.SourceFile.Path
		}
		for dir, files := range set.FilesByDir {
			for _, f := range files {
				es.FilesByDirectory[dir] = append(es.FilesByDirectory[dir], exportFile{Path: f.Path, Size: f.Size})
			}
		}
		for _, pair := range set.HardlinkPairs {
			es.HardlinkPairs = append(es.HardlinkPairs, exportPair{
				Source: pair.Source.Path, Other: pair.Other.Path, Size: pair.Other.Size,
			})
		}
		for _, pair := range set.CopyPairs {
			es.CopyPairs = append(es.CopyPairs, exportPair{
				Source: pair.Source.Path, Other: pair.Other.Path, Size: pair.Other.Size,
			})
		}
		doc.Sets = append(doc.Sets, es)
	}

	for _, f := range result.UnmatchedFiles {
		doc.UnmatchedFiles = append(doc.UnmatchedFiles, exportFile{Path: f.Path, Size: f.Size})
	}

	return doc
}

func (r *Reporter) reportJSON(result *detector.Result, sourceDir string, targetDirs []string) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildDocument(result, sourceDir, targetDirs))
}

func (r *Reporter) reportYAML(result *detector.Result, sourceDir string, targetDirs []string) error {
	encoder := yaml.NewEncoder(r.writer)
	defer encoder.Close()
	return encoder.Encode(buildDocument(result, sourceDir, targetDirs))
}

// ExportJSON writes the full detection document to a file
func ExportJSON(path string, result *detector.Result, sourceDir string, targetDirs []string) error {
	data, err := json.MarshalIndent(buildDocument(result, sourceDir, targetDirs), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
