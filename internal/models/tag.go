// ABOUTME: Tag model for labelling notes and the counted tag report row.
// ABOUTME: Tag names are trimmed but keep their case as typed.

package models

import "strings"

type Tag struct {
	ID   int64
	Name string
}

func NewTag(name string) *Tag {
	return &Tag{
		Name: strings.TrimSpace(name),
	}
}

// TagCount is one row of the global tag usage report.
type TagCount struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}
