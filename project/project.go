// Package project loads an EV3 project archive: a zip holding metadata
// members plus one or more block-diagram program files.
package project

import (
	"archive/zip"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/gooseboi/mindstormer/diagram"
)

// Metadata member names inside the archive. Every member not listed here is
// a program file handed to the diagram builder.
const (
	memberTitle          = "___ProjectTitle"
	memberDescription    = "___ProjectDescription"
	memberYear           = "___CopyrightYear"
	memberThumbnail      = "___ProjectThumbnail"
	memberActivity       = "Activity.x3a"
	memberActivityAssets = "ActivityAssets.laz"
	memberDescriptor     = "Project.lvprojx"
)

// Project is a fully loaded EV3 project. The metadata members are carried
// verbatim; only the program files are parsed.
type Project struct {
	Title          string
	Description    string
	Year           int
	Thumbnail      []byte
	Activity       string
	ActivityAssets []byte
	Descriptor     string
	Files          []*diagram.Document
}

// Load opens and reads a project archive from disk. The load is atomic:
// the first program file that fails to parse aborts the whole project.
func Load(path string) (*Project, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening project archive: %w", err)
	}
	defer r.Close()
	return read(&r.Reader)
}

// Read reads a project archive from an in-memory or otherwise seekable
// source.
func Read(r io.ReaderAt, size int64) (*Project, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading project archive: %w", err)
	}
	return read(zr)
}

func read(zr *zip.Reader) (*Project, error) {
	p := &Project{}
	var title, description, year, activity, descriptor, thumbnail, assets bool

	for _, f := range zr.File {
		data, err := readMember(f)
		if err != nil {
			return nil, err
		}

		switch f.Name {
		case memberTitle:
			if p.Title, err = memberString(f.Name, data); err != nil {
				return nil, err
			}
			title = true
		case memberDescription:
			if p.Description, err = memberString(f.Name, data); err != nil {
				return nil, err
			}
			description = true
		case memberYear:
			n, err := strconv.Atoi(strings.TrimSpace(string(data)))
			if err != nil {
				return nil, fmt.Errorf("invalid copyright year %q", data)
			}
			p.Year = n
			year = true
		case memberThumbnail:
			p.Thumbnail = data
			thumbnail = true
		case memberActivity:
			if p.Activity, err = memberString(f.Name, data); err != nil {
				return nil, err
			}
			activity = true
		case memberActivityAssets:
			p.ActivityAssets = data
			assets = true
		case memberDescriptor:
			if p.Descriptor, err = memberString(f.Name, data); err != nil {
				return nil, err
			}
			descriptor = true
		default:
			doc, err := diagram.Build(f.Name, data)
			if err != nil {
				return nil, fmt.Errorf("parsing %s: %w", f.Name, err)
			}
			p.Files = append(p.Files, doc)
		}
	}

	required := []struct {
		name string
		ok   bool
	}{
		{memberTitle, title},
		{memberDescription, description},
		{memberYear, year},
		{memberThumbnail, thumbnail},
		{memberActivity, activity},
		{memberActivityAssets, assets},
		{memberDescriptor, descriptor},
	}
	for _, m := range required {
		if !m.ok {
			return nil, fmt.Errorf("project archive has no %s member", m.name)
		}
	}
	return p, nil
}

func readMember(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening member %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading member %s: %w", f.Name, err)
	}
	return data, nil
}

func memberString(name string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("member %s is not valid UTF-8", name)
	}
	return string(data), nil
}

// FileNames returns the program file names in archive order.
func (p *Project) FileNames() []string {
	return lo.Map(p.Files, func(d *diagram.Document, _ int) string { return d.Name })
}

// Save writes the project back to the archive format. Serialization of the
// document model is not implemented yet.
func (p *Project) Save(path string) error {
	return fmt.Errorf("saving project to %s: serialization not implemented", path)
}
