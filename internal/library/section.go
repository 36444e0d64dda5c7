package library

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"extrasync/internal/logging"
	"extrasync/internal/prompt"
	"extrasync/internal/services"
	"extrasync/internal/services/plex"
)

// ResolveSection turns the configured section id into a concrete section. A
// valid movie/show id selects directly; anything else falls back to an
// interactive numbered menu that loops until a valid choice or -1 to cancel.
func (s *Scanner) ResolveSection(ctx context.Context, requested int, prompter prompt.Provider, out io.Writer) (plex.Section, error) {
	sections, err := s.client.Sections(ctx)
	if err != nil {
		return plex.Section{}, err
	}
	if len(sections) == 0 {
		return plex.Section{}, services.Wrap(services.ErrUnexpectedResponse, "scan", "sections", "server reported no library sections", nil)
	}

	if requested > 0 {
		found := false
		for _, section := range sections {
			if section.ID != requested {
				continue
			}
			found = true
			if !section.IsScannable() {
				fmt.Fprintf(out, "Ignoring selected library section %d: not a movie or show library.\n", requested)
				break
			}
			s.logger.Info("resolved section",
				logging.Args(logging.Int("id", section.ID), logging.String("title", section.Title))...)
			return section, nil
		}
		if !found {
			fmt.Fprintf(out, "Library section %d could not be used, choose another.\n", requested)
		}
	}

	return chooseSection(sections, prompter, out)
}

func chooseSection(sections []plex.Section, prompter prompt.Provider, out io.Writer) (plex.Section, error) {
	choices := make(map[int]plex.Section)
	fmt.Fprintln(out, "\nChoose a library to scan:")
	fmt.Fprintln(out)
	for _, section := range sections {
		if !section.IsScannable() {
			continue
		}
		fmt.Fprintf(out, "[%d] %s\n", section.ID, section.Title)
		choices[section.ID] = section
	}
	fmt.Fprintln(out)

	if len(choices) == 0 {
		return plex.Section{}, services.Wrap(services.ErrConfiguration, "scan", "sections", "no movie or show sections available", nil)
	}
	if prompter == nil {
		return plex.Section{}, services.Wrap(services.ErrConfiguration, "scan", "sections",
			"no usable section configured and prompting is unavailable; set section in config.yml or pass --section", nil)
	}

	label := "Enter the library number (-1 to cancel)"
	for {
		answer, err := prompter.Prompt(label)
		if err != nil {
			return plex.Section{}, services.Wrap(services.ErrConfiguration, "scan", "sections", "read selection", err)
		}
		trimmed := strings.TrimSpace(answer)
		if trimmed == "-1" {
			return plex.Section{}, services.Wrap(services.ErrCanceled, "scan", "sections", "selection canceled", nil)
		}
		if id, err := strconv.Atoi(trimmed); err == nil {
			if section, ok := choices[id]; ok {
				fmt.Fprintf(out, "\nSelected %q\n\n", section.Title)
				return section, nil
			}
		}
		label = "Invalid section, please try again (-1 to cancel)"
	}
}
