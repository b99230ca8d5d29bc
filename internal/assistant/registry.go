package assistant

// EntityDescriptor binds a canonical entity name to its backing
// collection and the keywords the resolver matches against. Keywords
// may overlap between entities; the longest matching keyword wins and
// declaration order breaks ties.
type EntityDescriptor struct {
	Name       string
	Collection string
	Keywords   []string
}

type Registry struct {
	entities []EntityDescriptor
	byName   map[string]*EntityDescriptor
}

func NewRegistry(entities []EntityDescriptor) *Registry {
	r := &Registry{entities: entities, byName: make(map[string]*EntityDescriptor, len(entities))}
	for i := range r.entities {
		r.byName[r.entities[i].Name] = &r.entities[i]
	}
	return r
}

func (r *Registry) Entities() []EntityDescriptor {
	return r.entities
}

func (r *Registry) Lookup(name string) *EntityDescriptor {
	return r.byName[name]
}

// DefaultRegistry lists every collection the assistant can query.
// Entities without keywords are reachable through the CRUD API but not
// through free-text queries.
func DefaultRegistry() *Registry {
	return NewRegistry([]EntityDescriptor{
		{Name: "debit_cards", Collection: "debit_cards", Keywords: []string{"card", "debit", "payment", "balance", "bank"}},
		{Name: "drivers", Collection: "drivers", Keywords: []string{"driver", "chauffeur", "operator"}},
		{Name: "vehicles", Collection: "vehicles", Keywords: []string{"vehicle", "car", "truck", "fleet"}},
		{Name: "team_members", Collection: "team_members", Keywords: []string{"team", "member", "employee", "staff", "person"}},
		{Name: "inventory", Collection: "inventory", Keywords: []string{"inventory", "stock", "item", "product", "supply"}},
		{Name: "maintenance_requests", Collection: "maintenance_requests", Keywords: []string{"maintenance", "repair", "service", "fix"}},
		{Name: "maintenance_schedules", Collection: "maintenance_schedules"},
		{Name: "housing_staff", Collection: "housing_staff", Keywords: []string{"housing", "accommodation", "residence"}},
		{Name: "properties", Collection: "properties", Keywords: []string{"property", "building", "house", "villa"}},
		{Name: "abroad_staff", Collection: "abroad_staff"},
		{Name: "accounts_payable", Collection: "accounts_payable", Keywords: []string{"payable", "owe", "debt", "bill"}},
		{Name: "accounts_receivable", Collection: "accounts_receivable", Keywords: []string{"receivable", "invoice", "payment due"}},
		{Name: "purchase_invoices", Collection: "purchase_invoices"},
		{Name: "sales_invoices", Collection: "sales_invoices"},
		{Name: "racing_payments", Collection: "racing_payments", Keywords: []string{"racing", "race", "competition"}},
		{Name: "shipments", Collection: "shipments", Keywords: []string{"shipment", "delivery", "package", "cargo"}},
		{Name: "spv_companies", Collection: "spv_companies"},
		{Name: "travel_trips", Collection: "travel_trips", Keywords: []string{"travel", "trip", "journey"}},
	})
}
