package dto

// PhotoURLs variantes de tamaño de una foto.
type PhotoURLs struct {
	Original string `json:"original"`
	Large    string `json:"large"`
	Medium   string `json:"medium"`
	Small    string `json:"small"`
}

// Photo foto normalizada del banco de imágenes.
type Photo struct {
	ID              int64     `json:"id"`
	URL             string    `json:"url"`
	URLs            PhotoURLs `json:"urls"`
	Alt             string    `json:"alt"`
	Photographer    string    `json:"photographer"`
	PhotographerURL string    `json:"photographerUrl"`
}

// PhotoPage página de resultados del banco de imágenes.
type PhotoPage struct {
	Photos       []Photo `json:"photos"`
	Page         int     `json:"page"`
	PerPage      int     `json:"perPage"`
	TotalResults int     `json:"totalResults"`
	HasMore      bool    `json:"hasMore"`
}
