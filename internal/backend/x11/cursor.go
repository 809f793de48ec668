package x11

import (
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

const (
	cursorFontName = "cursor"
	// cursorLeftPtr is the arrow glyph of the X cursor font.
	cursorLeftPtr = 68
)

// createCursor creates a white on black cursor from the X cursor font.
// Forked from https://github.com/BurntSushi/xgbutil/blob/master/xcursor/xcursor.go
func createCursor(conn *xgb.Conn, glyph uint16) (xproto.Cursor, error) {
	fontID, err := xproto.NewFontId(conn)
	if err != nil {
		return 0, err
	}

	cursorID, err := xproto.NewCursorId(conn)
	if err != nil {
		return 0, err
	}

	err = xproto.OpenFontChecked(conn, fontID, uint16(len(cursorFontName)), cursorFontName).Check()
	if err != nil {
		return 0, err
	}

	err = xproto.CreateGlyphCursorChecked(conn, cursorID, fontID, fontID,
		glyph, glyph+1,
		0xffff, 0xffff, 0xffff,
		0, 0, 0).Check()
	if err != nil {
		return 0, err
	}

	err = xproto.CloseFontChecked(conn, fontID).Check()
	if err != nil {
		return 0, err
	}

	return cursorID, nil
}
