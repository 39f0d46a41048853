package domain

// A delivery destination loaded from the store list.
// Location is nil until the store has been geocoded; stores without a
// location never take part in planning.
type Store struct {
	ID       string
	Name     string
	Address  string
	Location *Coordinates
}

func (s Store) Located() bool { return s.Location != nil }

// Depot is the shared origin and mandatory return point of every route.
type Depot struct {
	Name     string
	Location Coordinates
}
