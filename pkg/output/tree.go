package output

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/sonemaro/packitor/pkg/logger"
	"github.com/sonemaro/packitor/pkg/util"
	"github.com/sonemaro/packitor/pkg/walker"
)

// treeNode is an in-memory tree rebuilt from the flat entry list.
// Children keep the walk's lexicographic order.
type treeNode struct {
	name     string
	dir      bool
	children []*treeNode
}

// formatTree renders the selected files as a tree rooted at root.
func (f *formatter) formatTree(root string, result walker.Result) (string, error) {
	f.log.Debug("Formatting tree output")

	tree := buildTree(root, result.Entries)

	var builder strings.Builder
	f.formatTreeNode(&builder, tree, "", true, true)

	if f.config.WithStats {
		f.log.Debug("Adding statistics to output")
		stats := result.Stats
		builder.WriteString("\nStatistics:\n")
		builder.WriteString(fmt.Sprintf("  Files Selected: %d\n", stats.FilesFound))
		builder.WriteString(fmt.Sprintf("  Files Ignored: %d\n", stats.FilesSkipped))
		builder.WriteString(fmt.Sprintf("  Directories Pruned: %d\n", stats.DirsPruned))
		builder.WriteString(fmt.Sprintf("  Total Size: %s\n", util.FormatSize(stats.TotalSize)))
	}

	return builder.String(), nil
}

// buildTree nests the slash-separated relative paths under a synthetic
// root node. Entries arrive in walk order, so appending children in
// encounter order keeps the tree sorted.
func buildTree(root string, entries []walker.Entry) *treeNode {
	tree := &treeNode{name: root, dir: true}
	for _, entry := range entries {
		node := tree
		parts := strings.Split(entry.RelPath, "/")
		for i, part := range parts {
			isDir := i < len(parts)-1
			child := node.child(part)
			if child == nil {
				child = &treeNode{name: part, dir: isDir}
				node.children = append(node.children, child)
			}
			node = child
		}
	}
	return tree
}

func (n *treeNode) child(name string) *treeNode {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (f *formatter) formatTreeNode(builder *strings.Builder, node *treeNode, prefix string, isLast, isRoot bool) {
	f.log.WithFields(logger.Fields{
		"node":   node.name,
		"prefix": prefix,
		"isLast": isLast,
		"isRoot": isRoot,
	}).Trace("Formatting tree node")

	if !isRoot {
		if isLast {
			builder.WriteString(prefix + "└── ")
		} else {
			builder.WriteString(prefix + "├── ")
		}
	}

	// Format node name with colors if enabled
	nodeName := node.name
	if f.config.WithColors && node.dir {
		nodeName = color.New(color.FgBlue, color.Bold).Sprint(nodeName)
	}

	builder.WriteString(nodeName)
	if node.dir {
		builder.WriteString("/")
	}
	builder.WriteString("\n")

	newPrefix := prefix
	if !isRoot {
		if isLast {
			newPrefix += "    "
		} else {
			newPrefix += "│   "
		}
	}

	for i, child := range node.children {
		isLastChild := i == len(node.children)-1
		f.formatTreeNode(builder, child, newPrefix, isLastChild, false)
	}
}
