// Package commands implements the perfumectl command tree.
//
// perfumectl works from a JSON draft file describing one perfume and the
// brand and category it belongs to, either by existing id or as new entries:
//
//	{
//	  "item": {"name": "Nova Eau", "description": "...", "price": 89.9,
//	           "stock": 12, "sizeMl": 100, "genre": "unisex",
//	           "releaseDate": "2024-05-01"},
//	  "itemImage": "bottle.png",
//	  "brand": {"existingId": 3},
//	  "category": {"new": {"name": "Fresh", "description": "Citrus notes"}}
//	}
//
// Image paths are resolved relative to the draft file.
//
//	perfumectl validate draft.json
//	perfumectl create draft.json --token $JWT
package commands
