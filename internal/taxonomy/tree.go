// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"log/slog"

	"investing/internal/models"
)

// BuildTree turns a flat category list into a forest. counts maps category
// ID to its direct post count. Children keep the (level, order, name) order
// of the sorted input, so no per-level sort is needed.
//
// Inconsistent data never fails the build: a category whose parent is
// missing is shown as a root, and an edge that would close a cycle is cut
// so the category that would close it becomes a root. Both are logged.
func BuildTree(cats []models.Category, counts map[string]int64) []*models.CategoryNode {
	sorted := make([]models.Category, len(cats))
	copy(sorted, cats)
	models.SortCategories(sorted)

	nodes := make(map[string]*models.CategoryNode, len(sorted))
	ordered := make([]*models.CategoryNode, 0, len(sorted))
	for _, c := range sorted {
		if _, dup := nodes[c.ID]; dup {
			slog.Warn("duplicate category id in listing", "category_id", c.ID)
			continue
		}
		n := &models.CategoryNode{
			Category:  c,
			PostCount: counts[c.ID],
			Children:  []*models.CategoryNode{},
		}
		nodes[c.ID] = n
		ordered = append(ordered, n)
	}

	// parentOf holds accepted edges only, so it is always a forest and the
	// cycle walk below terminates.
	parentOf := make(map[string]string, len(ordered))
	roots := make([]*models.CategoryNode, 0)
	for _, n := range ordered {
		if n.IsRoot() {
			roots = append(roots, n)
			continue
		}
		pid := *n.ParentID
		parent, ok := nodes[pid]
		switch {
		case !ok:
			slog.Warn("orphan category shown as root", "category_id", n.ID, "slug", n.Slug, "parent_id", pid)
			roots = append(roots, n)
		case closesCycle(parentOf, n.ID, pid):
			slog.Warn("category cycle cut", "category_id", n.ID, "slug", n.Slug, "parent_id", pid)
			roots = append(roots, n)
		default:
			parentOf[n.ID] = pid
			parent.Children = append(parent.Children, n)
		}
	}

	for _, r := range roots {
		annotate(r, 0)
	}
	return roots
}

// closesCycle reports whether linking id under pid would make id its own
// ancestor.
func closesCycle(parentOf map[string]string, id, pid string) bool {
	for cur, ok := pid, true; ok; cur, ok = parentOf[cur] {
		if cur == id {
			return true
		}
	}
	return false
}

// annotate sets depths and subtree post totals.
func annotate(n *models.CategoryNode, depth int) int64 {
	n.Depth = depth
	total := n.PostCount
	for _, child := range n.Children {
		total += annotate(child, depth+1)
	}
	n.TotalPostCount = total
	return total
}

// Flatten returns the forest in pre-order.
func Flatten(roots []*models.CategoryNode) []*models.CategoryNode {
	var out []*models.CategoryNode
	var walk func([]*models.CategoryNode)
	walk = func(level []*models.CategoryNode) {
		for _, n := range level {
			out = append(out, n)
			walk(n.Children)
		}
	}
	walk(roots)
	return out
}
