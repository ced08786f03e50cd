package services

import (
	"fmt"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/store"
	"backoffice/internal/utils"

	"github.com/xuri/excelize/v2"
)

type RoomingLayout string

const (
	LayoutRoom  RoomingLayout = "roomLayout"
	LayoutGuest RoomingLayout = "guestList"
)

const maxSheetName = 31

// SpreadsheetService builds .xlsx workbooks: the per-hotel rooming list and
// plain exports of the tabular reports.
type SpreadsheetService struct {
	Store     *store.Store
	RequestID string
}

// Sheet is one worksheet before it is written; Wrap marks the column whose
// cells hold multi-line text.
type Sheet struct {
	Name string
	Head []string
	Rows [][]any
	Wrap int
}

type roomingGuest struct {
	Name       string
	Gender     models.Gender
	Age        int
	RoomType   models.RoomType
	Meals      models.MealType
	WithoutBed bool
}

func (g roomingGuest) String() string {
	return fmt.Sprintf("%s (%s, %d)", g.Name, g.Gender, g.Age)
}

// BuildRoomingList groups Confirmed bookings by hotel, Makkah and Madinah
// alike, one sheet per hotel in first-seen order.
func BuildRoomingList(snap store.Snapshot, layout RoomingLayout) ([]Sheet, error) {
	if layout == "" {
		layout = LayoutRoom
	}
	if layout != LayoutRoom && layout != LayoutGuest {
		return nil, domain.ValidationError{Field: "layout", Msg: "must be roomLayout or guestList"}
	}

	var hotels []string
	guests := map[string][]roomingGuest{}
	add := func(hotel string, g roomingGuest) {
		hotel = strings.TrimSpace(hotel)
		if hotel == "" {
			return
		}
		if _, ok := guests[hotel]; !ok {
			hotels = append(hotels, hotel)
		}
		guests[hotel] = append(guests[hotel], g)
	}

	for _, b := range snap.Bookings {
		if b.Status != models.StatusConfirmed {
			continue
		}
		ci := store.IndexOf(snap.Customers, b.CustomerID, store.CustomerKey)
		pkg := packageFor(&snap, b.PackageID)
		if ci < 0 || pkg == nil {
			continue
		}
		c := snap.Customers[ci]
		g := roomingGuest{Name: c.Name, Gender: c.Gender, Age: c.Age, RoomType: b.RoomType, Meals: b.Meals, WithoutBed: b.WithoutBed}
		add(pkg.HotelMakkah, g)
		add(pkg.HotelMadinah, g)
	}

	sheets := make([]Sheet, 0, len(hotels))
	used := map[string]bool{}
	for _, h := range hotels {
		var sh Sheet
		if layout == LayoutRoom {
			sh = roomLayoutSheet(guests[h])
		} else {
			sh = guestListSheet(guests[h])
		}
		sh.Name = uniqueSheetName(h, used)
		sheets = append(sheets, sh)
	}
	return sheets, nil
}

// roomLayoutSheet fills rooms of each type to capacity in booking order;
// guests without a bed follow in one block after a blank row.
func roomLayoutSheet(list []roomingGuest) Sheet {
	sh := Sheet{Head: []string{"Room Type", "Room #", "Meals", "Guests"}, Wrap: 3}

	var order []models.RoomType
	byType := map[models.RoomType][]roomingGuest{}
	var noBed []roomingGuest
	for _, g := range list {
		if g.WithoutBed {
			noBed = append(noBed, g)
			continue
		}
		rt := g.RoomType
		if rt == "" {
			rt = models.RoomDouble
		}
		if _, ok := byType[rt]; !ok {
			order = append(order, rt)
		}
		byType[rt] = append(byType[rt], g)
	}

	for _, rt := range order {
		members := byType[rt]
		capacity := rt.Capacity()
		room := 0
		for i := 0; i < len(members); i += capacity {
			end := min(i+capacity, len(members))
			room++
			occupants := members[i:end]
			meals := "N/A"
			if occupants[0].Meals != "" {
				meals = occupants[0].Meals.Label()
			}
			sh.Rows = append(sh.Rows, []any{rt.Label(), room, meals, joinGuests(occupants)})
		}
	}

	if len(noBed) > 0 {
		sh.Rows = append(sh.Rows, []any{}, []any{"WITHOUT BED", "", "", joinGuests(noBed)})
	}
	return sh
}

func guestListSheet(list []roomingGuest) Sheet {
	sh := Sheet{Head: []string{"Customer Name", "Gender", "Age", "Room Type", "Meals"}, Wrap: -1}
	for _, g := range list {
		room, meals := "Without Bed", "N/A"
		if !g.WithoutBed {
			room = g.RoomType.Label()
			if g.Meals != "" {
				meals = g.Meals.Label()
			}
		}
		sh.Rows = append(sh.Rows, []any{g.Name, string(g.Gender), g.Age, room, meals})
	}
	return sh
}

func joinGuests(list []roomingGuest) string {
	parts := make([]string, len(list))
	for i, g := range list {
		parts[i] = g.String()
	}
	return strings.Join(parts, "\n")
}

var sheetNameReplacer = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// uniqueSheetName keeps names within the 31-character worksheet limit and
// suffixes repeats.
func uniqueSheetName(name string, used map[string]bool) string {
	base := utils.TruncateRunes(strings.TrimSpace(sheetNameReplacer.Replace(name)), maxSheetName)
	if base == "" {
		base = "Sheet"
	}
	candidate := base
	for n := 2; used[strings.ToLower(candidate)]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate = utils.TruncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

// RoomingList returns the workbook bytes and filename.
func (s SpreadsheetService) RoomingList(layout RoomingLayout) ([]byte, string, error) {
	sheets, err := BuildRoomingList(s.Store.Snapshot(), layout)
	if err != nil {
		return nil, "", err
	}
	if len(sheets) == 0 {
		sheets = []Sheet{{Name: "Rooming List", Head: []string{"No confirmed bookings"}, Wrap: -1}}
	}
	utils.LogEvent(s.RequestID, "spreadsheet", "rooming_list", fmt.Sprintf("layout=%s hotels=%d", layout, len(sheets)))
	out, err := writeWorkbook(sheets)
	if err != nil {
		return nil, "", err
	}
	return out, string(ReportHotelRoomingList) + ".xlsx", nil
}

// Export writes one of the tabular reports as a single-sheet workbook.
func (s SpreadsheetService) Export(kind ReportType) ([]byte, string, error) {
	if kind == ReportHotelRoomingList {
		return s.RoomingList(LayoutRoom)
	}
	table, err := BuildReportTable(s.Store.Snapshot(), kind)
	if err != nil {
		return nil, "", err
	}
	rows := make([][]any, len(table.Rows))
	for i, r := range table.Rows {
		rows[i] = make([]any, len(r))
		for j, v := range r {
			if m, ok := v.(Money); ok {
				v = int64(m)
			}
			rows[i][j] = v
		}
	}
	utils.LogEvent(s.RequestID, "spreadsheet", "export", "type="+string(kind))
	out, err := writeWorkbook([]Sheet{{Name: table.Title, Head: table.Head, Rows: rows, Wrap: -1}})
	if err != nil {
		return nil, "", err
	}
	return out, string(kind) + ".xlsx", nil
}

func writeWorkbook(sheets []Sheet) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	wrapStyle, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, err
	}
	headStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	for i, sh := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sh.Name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sh.Name); err != nil {
			return nil, err
		}
		if err := writeSheet(f, sh, headStyle, wrapStyle); err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sh.Name, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sh Sheet, headStyle, wrapStyle int) error {
	head := make([]any, len(sh.Head))
	for i, h := range sh.Head {
		head[i] = h
	}
	if err := f.SetSheetRow(sh.Name, "A1", &head); err != nil {
		return err
	}
	if len(sh.Head) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(sh.Head), 1)
		if err := f.SetCellStyle(sh.Name, "A1", last, headStyle); err != nil {
			return err
		}
	}

	for r, row := range sh.Rows {
		if len(row) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		values := row
		if err := f.SetSheetRow(sh.Name, cell, &values); err != nil {
			return err
		}
		if sh.Wrap >= 0 && sh.Wrap < len(row) {
			wrapCell, _ := excelize.CoordinatesToCellName(sh.Wrap+1, r+2)
			if err := f.SetCellStyle(sh.Name, wrapCell, wrapCell, wrapStyle); err != nil {
				return err
			}
		}
	}

	for i, h := range sh.Head {
		col, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(max(20, len(h)+2))
		if i == sh.Wrap {
			width = 50
		}
		if err := f.SetColWidth(sh.Name, col, col, width); err != nil {
			return err
		}
	}
	return nil
}
