package graph

import (
	"github.com/finsight/graphview/pkg/common"
)

// NodeStyle is the declarative appearance of a node category. The render
// surface maps these onto its own style sheet; the pipeline only serves the
// catalog.
type NodeStyle struct {
	Color string `json:"color"`
	Shape string `json:"shape"`
	Size  int    `json:"size"`
}

// EdgeStyle is the declarative appearance of a relationship type.
type EdgeStyle struct {
	Color     string `json:"color"`
	Width     int    `json:"width"`
	LineStyle string `json:"line_style"`
	Arrow     bool   `json:"arrow"`
}

// StateStyle describes the highlighted and faded overlay states.
type StateStyle struct {
	Color   string  `json:"color,omitempty"`
	Width   int     `json:"width,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// StyleCatalog is the full declarative style table served to the render
// surface.
type StyleCatalog struct {
	Nodes  map[common.Category]NodeStyle `json:"nodes"`
	Edges  map[string]EdgeStyle          `json:"edges"`
	States map[OverlayState]StateStyle   `json:"states"`
}

// Styles returns the style catalog. The catalog is immutable configuration;
// callers must not modify the returned maps.
func Styles() StyleCatalog {
	return styleCatalog
}

var styleCatalog = StyleCatalog{
	Nodes: map[common.Category]NodeStyle{
		common.CategoryUser:        {Color: "#4a6fdc", Shape: "ellipse", Size: 40},
		common.CategoryCompany:     {Color: "#28a745", Shape: "roundrectangle", Size: 60},
		common.CategoryTransaction: {Color: "#ffc107", Shape: "diamond", Size: 40},
	},
	Edges: map[string]EdgeStyle{
		"PARENT_OF":             {Color: "#28a745", Width: 3, LineStyle: "solid", Arrow: true},
		"SUBSIDIARY_OF":         {Color: "#28a745", Width: 3, LineStyle: "dashed", Arrow: true},
		"DIRECTOR_OF":           {Color: "#9c27b0", Width: 3, LineStyle: "solid", Arrow: true},
		"SHAREHOLDER_OF":        {Color: "#ff9800", Width: 3, LineStyle: "solid", Arrow: true},
		"LEGAL_ENTITY_OF":       {Color: "#795548", Width: 3, LineStyle: "solid", Arrow: true},
		"COMPOSITE":             {Color: "#e91e63", Width: 4, LineStyle: "solid", Arrow: true},
		"SHARED_EMAIL":          {Color: "#03a9f4", Width: 2, LineStyle: "dotted", Arrow: true},
		"SHARED_PHONE":          {Color: "#03a9f4", Width: 2, LineStyle: "dotted", Arrow: true},
		"SHARED_ADDRESS":        {Color: "#03a9f4", Width: 2, LineStyle: "dotted", Arrow: true},
		"SHARED_PAYMENT_METHOD": {Color: "#03a9f4", Width: 2, LineStyle: "dotted", Arrow: true},
		"SENT":                  {Color: "#ff5722", Width: 3, LineStyle: "solid", Arrow: true},
		"RECEIVED_BY":           {Color: "#ff5722", Width: 3, LineStyle: "solid", Arrow: true},
		"LINKED_TO":             {Color: "#607d8b", Width: 2, LineStyle: "dashed", Arrow: false},
	},
	States: map[OverlayState]StateStyle{
		OverlayHighlighted: {Color: "#ff0000", Width: 4},
		OverlayFaded:       {Opacity: 0.25},
	},
}
