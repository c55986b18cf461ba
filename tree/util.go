package tree

import (
	"crypto/sha256"
	"fmt"
)

// Fingerprint returns a content hash of the subtree rooted at n. Two
// subtrees have equal fingerprints iff they are structurally identical.
func Fingerprint(n *Node) string {
	if n == nil {
		return ""
	}
	h := sha256.New()
	writeFingerprint(n, h)
	return fmt.Sprintf("%x", h.Sum(nil)[:16])
}

func writeFingerprint(n *Node, h interface{ Write(p []byte) (int, error) }) {
	fmt.Fprintf(h, "%s\x00%s\x00%s\x00%d\x00", n.Kind, n.Label, n.Text, len(n.Children))
	for _, child := range n.Children {
		writeFingerprint(child, h)
	}
}

// HashContent returns a short hash for change detection on raw source.
func HashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x", sum[:])
}
