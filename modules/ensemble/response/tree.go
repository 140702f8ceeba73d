package response

import "github.com/disiqueira/gotree"

// Tree renders r and its children for debugging.
func Tree(r Response) string {
	root := gotree.New(r.String())
	addChildren(root, r)
	return root.Print()
}

func addChildren(tree gotree.Tree, r Response) {
	for _, child := range r.Children() {
		addChildren(tree.Add(child.String()), child)
	}
}
