package main

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterFlags_Selection(t *testing.T) {
	f := filterFlags{}
	sel := f.selection()
	assert.Nil(t, sel.Priorities)
	assert.Nil(t, sel.Categories)

	f = filterFlags{priorities: []string{"High"}, noneCategory: true}
	sel = f.selection()
	assert.Equal(t, []string{"High"}, sel.Priorities)
	assert.NotNil(t, sel.Categories)
	assert.Empty(t, sel.Categories)
}

func TestSelectionFromQuery(t *testing.T) {
	q, err := url.ParseQuery("priority=High&priority=Low&category=")
	assert.NoError(t, err)
	sel := selectionFromQuery(q)

	assert.Equal(t, []string{"High", "Low"}, sel.Priorities)
	assert.NotNil(t, sel.Categories)
	assert.Empty(t, sel.Categories)

	sel = selectionFromQuery(url.Values{})
	assert.Nil(t, sel.Priorities)
	assert.Nil(t, sel.Categories)
}

func TestSelectionFromQuery_KeepsWhitespace(t *testing.T) {
	q, err := url.ParseQuery("priority=+High+&category=Books")
	assert.NoError(t, err)
	sel := selectionFromQuery(q)

	assert.Equal(t, []string{" High "}, sel.Priorities)
	assert.Equal(t, []string{"Books"}, sel.Categories)
}
