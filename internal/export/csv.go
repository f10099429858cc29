// Package export renders the client list as a spreadsheet-friendly CSV.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gschargev/giftdesk/internal/domain"
)

// Header is the fixed Korean column row. Order matches the spreadsheet the
// team already uses; do not reorder.
var Header = []string{
	"No", "입력자", "업체명", "성함", "직함", "연락처",
	"우편번호", "주소", "상세주소", "품목", "수량", "금액", "상태", "비고",
}

// utf8BOM makes Excel detect the encoding; without it Korean text renders
// as mojibake.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Filename returns the download name for an export generated at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("gift_list_export_%s.csv", t.Format("2006-01-02"))
}

// WriteCSV writes the clients as CSV, one row per gift line. The No column
// numbers clients, not rows: a client with three gift lines repeats its
// number three times. Clients without gift lines produce no rows.
func WriteCSV(w io.Writer, clients []domain.Client) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	for i, c := range clients {
		for _, g := range c.GiftHistory {
			row := []string{
				strconv.Itoa(i + 1),
				c.RegisteredBy,
				c.Company,
				c.Name,
				c.Position,
				c.Phone,
				c.Postcode,
				c.Address,
				c.AddressDetail,
				g.ItemName,
				strconv.Itoa(g.Quantity),
				strconv.FormatInt(g.Price, 10),
				string(g.Status),
				g.Note,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}
