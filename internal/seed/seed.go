// Package seed fills empty member and project tables from CSV files so a
// fresh deployment has public content to show.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"orgsite/m/domain"
	"orgsite/m/internal/repository"
)

// Load reads members.csv and projects.csv from dir. Each table is seeded
// only while it is empty; missing files are skipped.
func Load(ctx context.Context, members *repository.Members, projects *repository.Projects, dir string) error {
	existing, err := members.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		n, err := loadFile(filepath.Join(dir, "members.csv"), 2, func(record []string) (bool, error) {
			_, err := members.Create(ctx, memberFromRecord(record))
			return err == nil, err
		})
		if err != nil {
			return fmt.Errorf("seed members: %w", err)
		}
		if n > 0 {
			log.Printf("seeded %d members", n)
		}
	}

	existingProjects, err := projects.List(ctx, "")
	if err != nil {
		return err
	}
	if len(existingProjects) == 0 {
		n, err := loadFile(filepath.Join(dir, "projects.csv"), 6, func(record []string) (bool, error) {
			in := repository.ProjectInput{
				Title:       strings.TrimSpace(record[0]),
				Description: strings.TrimSpace(record[1]),
				Status:      strings.TrimSpace(record[2]),
				Budget:      strings.TrimSpace(record[3]),
				Date:        strings.TrimSpace(record[4]),
				Category:    strings.TrimSpace(record[5]),
			}
			if in.Title == "" || !domain.ValidProjectStatus(in.Status) {
				log.Printf("skipping project row %q", record)
				return false, nil
			}
			_, err := projects.Create(ctx, in)
			return err == nil, err
		})
		if err != nil {
			return fmt.Errorf("seed projects: %w", err)
		}
		if n > 0 {
			log.Printf("seeded %d projects", n)
		}
	}
	return nil
}

// memberFromRecord maps name, position[, committee[, about]].
func memberFromRecord(record []string) repository.MemberInput {
	in := repository.MemberInput{
		Name:     strings.TrimSpace(record[0]),
		Position: strings.TrimSpace(record[1]),
	}
	if len(record) > 2 && strings.TrimSpace(record[2]) != "" {
		c := strings.TrimSpace(record[2])
		in.Committee = &c
	}
	if len(record) > 3 && strings.TrimSpace(record[3]) != "" {
		a := strings.TrimSpace(record[3])
		in.About = &a
	}
	return in
}

// loadFile skips the header and calls insert for every row with at least
// minFields columns. It returns how many rows insert accepted.
func loadFile(path string, minFields int, insert func([]string) (bool, error)) (int, error) {
	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return 0, nil
		}
		return 0, fmt.Errorf("read header: %w", err)
	}

	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("unable to read row in %s: %v", path, err)
			continue
		}
		if len(record) < minFields {
			continue
		}
		ok, err := insert(record)
		if err != nil {
			return rows, err
		}
		if ok {
			rows++
		}
	}
	return rows, nil
}
