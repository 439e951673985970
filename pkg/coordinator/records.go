package coordinator

import (
	"Snack-Tracker/domain"
	"Snack-Tracker/pkg/store"
)

func productFields(p domain.Product) store.Fields {
	return store.Fields{
		"id":       p.ID,
		"name":     p.Name,
		"category": string(p.Category),
		"kcal":     p.Kcal,
		"imageurl": p.ImageURL,
	}
}

// productFromFields prefers the stored id and falls back to the node key.
func productFromFields(key string, f store.Fields) domain.Product {
	id := f["id"]
	if id == "" {
		id = key
	}
	return domain.Product{
		ID:       id,
		Name:     f["name"],
		Category: domain.Category(f["category"]),
		Kcal:     f["kcal"],
		ImageURL: f["imageurl"],
	}
}

func entryFields(e domain.ConsumptionEntry) store.Fields {
	return store.Fields{
		"name":     e.Name,
		"category": string(e.Category),
		"kcal":     e.Kcal,
		"imageurl": e.ImageURL,
		"date":     e.Date,
		"user_id":  e.UserID,
	}
}

func entryFromFields(key string, f store.Fields) domain.ConsumptionEntry {
	return domain.ConsumptionEntry{
		ID:       key,
		UserID:   f["user_id"],
		Name:     f["name"],
		Category: domain.Category(f["category"]),
		Kcal:     f["kcal"],
		ImageURL: f["imageurl"],
		Date:     f["date"],
	}
}

func totalFromFields(date, userKey string, f store.Fields) domain.DailyTotal {
	userID := f["user_id"]
	if userID == "" {
		userID = userKey
	}
	return domain.DailyTotal{UserID: userID, Date: date, Kcal: f["kcal"]}
}
