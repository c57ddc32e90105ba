package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path"

	"rostercore/internal/blob"
	"rostercore/pkg/domain"
)

// ExportRoster writes the current roster to the sink in every configured
// export format. Keys are stable per profile and format so re-exports
// overwrite. Returns the written blob infos.
func (s *DocumentStore) ExportRoster(ctx context.Context, sink blob.Store) ([]blob.Info, error) {
	s.mu.RLock()
	profile := s.profile
	exports := s.doc.Settings.Exports
	exports.Formats = append([]domain.ExportFormat(nil), exports.Formats...)
	var roster *domain.Roster
	if s.doc.Roster != nil {
		r := s.doc.Roster.Clone()
		roster = &r
	}
	s.mu.RUnlock()

	if roster == nil {
		return nil, fmt.Errorf("no roster loaded")
	}
	if len(exports.Formats) == 0 {
		return nil, nil
	}

	var written []blob.Info
	for _, format := range exports.Formats {
		payload, contentType, err := encodeRoster(roster, format)
		if err != nil {
			return written, err
		}
		key := path.Join(exports.Path, fmt.Sprintf("%s-roster.%s", profile, format))
		info, err := sink.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{ContentType: contentType})
		if err != nil {
			s.logger.Error("roster export failed", "key", key, "error", err)
			return written, err
		}
		s.logger.Info("roster exported", "key", key, "bytes", info.Size)
		written = append(written, info)
	}
	return written, nil
}

func encodeRoster(roster *domain.Roster, format domain.ExportFormat) ([]byte, string, error) {
	switch format {
	case domain.FormatJSON:
		b, err := json.MarshalIndent(roster, "", "  ")
		if err != nil {
			return nil, "", err
		}
		return append(b, '\n'), "application/json", nil
	case domain.FormatCSV:
		return encodeRosterCSV(roster), "text/csv", nil
	default:
		return nil, "", fmt.Errorf("unknown export format %q", format)
	}
}

func encodeRosterCSV(roster *domain.Roster) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"role", "id", "name", "email", "student_number", "git_username", "status", "enrollment", "source"})
	writeRows := func(role domain.MemberRole, members []domain.Member) {
		for _, m := range members {
			_ = w.Write([]string{
				string(role),
				m.ID,
				m.Name,
				m.Email,
				deref(m.StudentNumber),
				deref(m.GitUsername),
				string(m.Status),
				string(m.Enrollment),
				string(m.Source),
			})
		}
	}
	writeRows(domain.RoleStudent, roster.Students)
	writeRows(domain.RoleStaff, roster.Staff)
	w.Flush()
	return buf.Bytes()
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
