package tool

// Catalog is a fixed set of tools keyed by exact name. It is built once by
// [NewCatalog] and never modified, so it is safe for concurrent use.
type Catalog struct {
	tools map[string]GenericTool
	order []string
}

// NewCatalog builds a catalog from tools, keeping registration order. When
// two tools share a name the later one replaces the earlier in place.
func NewCatalog(tools ...GenericTool) *Catalog {
	catalog := &Catalog{
		tools: make(map[string]GenericTool, len(tools)),
		order: make([]string, 0, len(tools)),
	}
	for _, t := range tools {
		name := t.ToolInfo().Name
		if _, exists := catalog.tools[name]; !exists {
			catalog.order = append(catalog.order, name)
		}
		catalog.tools[name] = t
	}
	return catalog
}

// Get retrieves a tool by name. Names are case-sensitive.
func (c *Catalog) Get(name string) (GenericTool, bool) {
	tool, exists := c.tools[name]
	return tool, exists
}

// Has reports whether a tool with the given name exists.
func (c *Catalog) Has(name string) bool {
	_, exists := c.tools[name]
	return exists
}

// Names returns the tool names in registration order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Tools returns the tools in registration order.
func (c *Catalog) Tools() []GenericTool {
	tools := make([]GenericTool, 0, len(c.order))
	for _, name := range c.order {
		tools = append(tools, c.tools[name])
	}
	return tools
}

// Descriptions returns the advertised metadata of every tool in
// registration order.
func (c *Catalog) Descriptions() []Description {
	descriptions := make([]Description, 0, len(c.order))
	for _, name := range c.order {
		descriptions = append(descriptions, c.tools[name].ToolInfo())
	}
	return descriptions
}

// Size returns the number of tools in the catalog.
func (c *Catalog) Size() int {
	return len(c.order)
}
