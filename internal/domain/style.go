package domain

// StyleInfo описание стиля для каталога
type StyleInfo struct {
	Name        string
	Description string
}

// StyleCatalog каталог стилей студии (только чтение)
var StyleCatalog = []StyleInfo{
	{Name: "Traditional", Description: "Bold lines and solid colors"},
	{Name: "Realism", Description: "Photorealistic detail and shading"},
	{Name: "Watercolor", Description: "Vibrant colors with painterly aesthetic"},
	{Name: "Geometric", Description: "Precise lines and patterns"},
	{Name: "Japanese", Description: "Traditional Japanese art themes"},
	{Name: "Minimalist", Description: "Simple, clean lines and designs"},
}
