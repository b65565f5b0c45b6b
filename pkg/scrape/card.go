package scrape

import "github.com/priyakud/zeplens/pkg/dom"

// maxClimb bounds the ancestor walk above an anchor. Six levels is enough to
// escape the text wrappers inside a card without wandering into page chrome.
const maxClimb = 6

// ResolveCard finds the smallest ancestor of anchor that represents exactly
// one order card. The walk climbs one level at a time; a subtree with more
// than one marker occurrence is the list wrapper, so the climb stops there
// and whatever was recorded below it wins. A level is only recorded when its
// text also carries a price pattern, which guards against settling on a
// fragment that holds the date but not the rest of the order.
//
// Returns false when no level within the limit satisfied both constraints;
// the anchor then yields no record.
func ResolveCard(anchor dom.Node) (dom.Node, bool) {
	var card dom.Node

	node, ok := anchor.Parent()
	for depth := 0; ok && depth < maxClimb; depth++ {
		text := node.Text()
		if CountMarkers(text) > 1 {
			break
		}
		if HasPrice(text) {
			card = node
		}
		node, ok = node.Parent()
	}

	return card, card != nil
}
