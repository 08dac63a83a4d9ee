// Package export renders registrations as an xlsx workbook with one sheet per event.
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/yukikurage/fest-registration-api/internal/models"
)

const (
	// ContentType is the MIME type of the produced workbook.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	defaultSheet  = "Sheet1"
	emptySheet    = "Registrations"
	maxSheetName  = 31
	timeLayout    = "2006-01-02 15:04:05"
	sheetNameTrim = "[]:*?/\\"
)

var individualHeader = []interface{}{
	"Registration ID", "Name", "Email", "USN", "Phone", "College", "Department", "Semester", "Payment Status", "Registered At",
}

// Workbook builds the workbook. Registrations must be grouped by event; the
// repository returns them ordered by event id.
func Workbook(regs []models.Registration) (*excelize.File, error) {
	f := excelize.NewFile()

	groups := groupByEvent(regs)
	if len(groups) == 0 {
		if err := f.SetSheetName(defaultSheet, emptySheet); err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(emptySheet, "A1", &individualHeader); err != nil {
			return nil, err
		}
		return f, nil
	}

	for i, group := range groups {
		name := SheetName(group[0].Event)
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}

		var err error
		if group[0].Event.IsTeamEvent {
			err = writeTeamSheet(f, name, group)
		} else {
			err = writeIndividualSheet(f, name, group)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to write sheet %q: %w", name, err)
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

// Write renders the workbook into w.
func Write(w io.Writer, regs []models.Registration) error {
	f, err := Workbook(regs)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.WriteTo(w)
	return err
}

// SheetName derives a valid, unique sheet name from the event.
func SheetName(event models.Event) string {
	title := strings.Map(func(r rune) rune {
		if strings.ContainsRune(sheetNameTrim, r) {
			return ' '
		}
		return r
	}, event.Title)

	name := strings.TrimSpace(fmt.Sprintf("%d %s", event.ID, title))
	if runes := []rune(name); len(runes) > maxSheetName {
		name = strings.TrimSpace(string(runes[:maxSheetName]))
	}
	return name
}

func groupByEvent(regs []models.Registration) [][]models.Registration {
	var groups [][]models.Registration
	for _, reg := range regs {
		last := len(groups) - 1
		if last >= 0 && groups[last][0].EventID == reg.EventID {
			groups[last] = append(groups[last], reg)
			continue
		}
		groups = append(groups, []models.Registration{reg})
	}
	return groups
}

func writeIndividualSheet(f *excelize.File, sheet string, regs []models.Registration) error {
	if err := f.SetSheetRow(sheet, "A1", &individualHeader); err != nil {
		return err
	}

	for i, reg := range regs {
		row := []interface{}{
			reg.RegistrationID,
			reg.User.Name,
			reg.User.Email,
			reg.User.USN,
			reg.User.Phone,
			reg.User.College,
			reg.User.Department,
			reg.User.Semester,
			string(reg.PaymentStatus),
			formatTime(reg.CreatedAt),
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeTeamSheet(f *excelize.File, sheet string, regs []models.Registration) error {
	maxMembers := 0
	for _, reg := range regs {
		if _, members := splitTeam(reg); len(members) > maxMembers {
			maxMembers = len(members)
		}
	}

	header := []interface{}{"Registration ID", "Leader Name", "Leader USN", "Leader Phone"}
	for n := 1; n <= maxMembers; n++ {
		header = append(header,
			fmt.Sprintf("Member %d Name", n),
			fmt.Sprintf("Member %d USN", n),
			fmt.Sprintf("Member %d Phone", n),
		)
	}
	header = append(header, "Team Size", "Payment Status", "Registered At")
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, reg := range regs {
		leader, members := splitTeam(reg)
		row := []interface{}{reg.RegistrationID, leader.Name, leader.USN, leader.Phone}
		for n := 0; n < maxMembers; n++ {
			if n < len(members) {
				row = append(row, members[n].Name, members[n].USN, members[n].Phone)
			} else {
				row = append(row, "", "", "")
			}
		}
		row = append(row, reg.TeamSize, string(reg.PaymentStatus), formatTime(reg.CreatedAt))
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// splitTeam separates the leader row from the other members. Registrations
// without a stored leader fall back to the registering user's profile.
func splitTeam(reg models.Registration) (models.TeamMember, []models.TeamMember) {
	leader := models.TeamMember{Name: reg.User.Name, USN: reg.User.USN, Phone: reg.User.Phone, IsLeader: true}
	members := make([]models.TeamMember, 0, len(reg.TeamMembers))
	for _, m := range reg.TeamMembers {
		if m.IsLeader {
			leader = m
			continue
		}
		members = append(members, m)
	}
	return leader, members
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
