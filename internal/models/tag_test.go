// ABOUTME: Tests for Tag model.
// ABOUTME: Validates tag creation and whitespace trimming.

package models

import "testing"

func TestNewTagKeepsCase(t *testing.T) {
	tag := NewTag("TestTag")

	if tag.Name != "TestTag" {
		t.Errorf("expected name 'TestTag', got %q", tag.Name)
	}
}

func TestNewTagWithSpaces(t *testing.T) {
	tag := NewTag("  My Tag  ")

	if tag.Name != "My Tag" {
		t.Errorf("expected trimmed 'My Tag', got %q", tag.Name)
	}
}
