package tsfrontend

import "github.com/dadada1995/ccls/internal/frontend"

// tsCursor is this package's frontend.Cursor: a resolved (usr, name,
// location) triple, detached from the tree-sitter node that produced
// it so it remains valid after the tree is closed.
type tsCursor struct {
	usr          string
	short        string
	qualified    string
	path         string
	line, column int
	systemHeader bool
}

var _ frontend.Cursor = (*tsCursor)(nil)

func (c *tsCursor) USR() string { return c.usr }

func (c *tsCursor) Names() (short, qualified string) { return c.short, c.qualified }

func (c *tsCursor) Location() (path string, line, column int) {
	return c.path, c.line, c.column
}

func (c *tsCursor) IsFromSystemHeader() bool { return c.systemHeader }
