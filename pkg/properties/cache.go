package properties

// Cache maps caller-chosen labels to previously composed layers. It is not
// safe for concurrent use; each client owns its own.
type Cache struct {
	entries map[string]Layer
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string]Layer)}
}

// Register stores a copy of layer under label. Language names and codes are
// reserved for the server's language defaults, so registering one is refused
// and reported by returning false.
func (c *Cache) Register(label string, layer Layer) bool {
	if IsLanguage(label) {
		return false
	}
	c.entries[label] = layer.Clone()
	return true
}

// Lookup returns a copy of the layer registered under label.
func (c *Cache) Lookup(label string) (Layer, bool) {
	l, ok := c.entries[label]
	if !ok {
		return nil, false
	}
	return l.Clone(), true
}

func (c *Cache) Len() int {
	return len(c.entries)
}
