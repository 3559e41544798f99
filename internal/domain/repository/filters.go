package repository

// SortSpec orden solicitado; Field es el nombre público (createdAt, name, price...).
// Cada adaptador traduce Field a una columna permitida y usa su orden por defecto si no la conoce.
type SortSpec struct {
	Field string
	Desc  bool
}

// Page límite y desplazamiento ya normalizados.
type Page struct {
	Limit  int
	Offset int
}
