package core

// SeedCategories returns the fixed default category set created on first
// initialization and restored by a full reset. User-added categories (for
// example the petty-cash category used by reconciliation) are not part of
// the seed and are discarded on reset.
func SeedCategories() []Category {
	return []Category{
		{ID: "1", Name: "Еда", Color: "#4CAF50"},
		{ID: "2", Name: "Транспорт", Color: "#2196F3"},
		{ID: "3", Name: "Развлечения", Color: "#FF9800"},
		{ID: "4", Name: "Здоровье", Color: "#F44336"},
		{ID: "5", Name: "Покупки", Color: "#9C27B0"},
		{ID: "6", Name: "Другое", Color: "#607D8B"},
		{ID: "7", Name: "Зарплата", Color: "#4CAF50"},
		{ID: "8", Name: "Подарки", Color: "#E91E63"},
	}
}
