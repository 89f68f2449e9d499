package transport

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
)

// Пути API сервера.

func (c *HTTPClient) CurrentCharacterID() *Handle {
	return c.Get("/account/current_character_id", nil)
}

func (c *HTTPClient) Tiles() *Handle {
	return c.Get("/zones/tiles", nil)
}

func (c *HTTPClient) Character(id string) *Handle {
	return c.Get("/character/"+url.PathEscape(id), nil)
}

func (c *HTTPClient) CharacterDead(id string) *Handle {
	return c.Get("/character/"+url.PathEscape(id)+"/dead", nil)
}

func (c *HTTPClient) Zone(worldRow, worldCol int32) *Handle {
	return c.Get(zonePath(worldRow, worldCol, ""), nil)
}

func (c *HTTPClient) ZoneCharacters(worldRow, worldCol int32) *Handle {
	return c.Get(zonePath(worldRow, worldCol, "/characters"), nil)
}

func (c *HTTPClient) ZoneResources(worldRow, worldCol int32) *Handle {
	return c.Get(zonePath(worldRow, worldCol, "/resources"), nil)
}

func (c *HTTPClient) ZoneStuff(worldRow, worldCol int32) *Handle {
	return c.Get(zonePath(worldRow, worldCol, "/stuff"), nil)
}

func (c *HTTPClient) ZoneBuilds(worldRow, worldCol int32) *Handle {
	return c.Get(zonePath(worldRow, worldCol, "/builds"), nil)
}

func (c *HTTPClient) Inventory(characterID string) *Handle {
	return c.Get("/character/"+url.PathEscape(characterID)+"/inventory-data", nil)
}

func (c *HTTPClient) WorldAsCharacter() *Handle {
	return c.Get("/world/as-character", nil)
}

// Description запрашивает документ описания (всегда POST).
// query уходит в строку запроса, data - телом JSON. Оба могут быть nil.
func (c *HTTPClient) Description(path string, query, data map[string]any) *Handle {
	var body any
	if data != nil {
		body = data
	}
	return c.Post(path, QueryFromValues(query), body)
}

// QuickAction вызывает быстрое действие. baseURL уже содержит строку запроса.
func (c *HTTPClient) QuickAction(baseURL, actionUUID string, row, col *int32) *Handle {
	path := baseURL
	if row != nil && col != nil {
		path += fmt.Sprintf("&zone_row_i=%d&zone_col_i=%d", *row, *col)
	}
	path += "&action_uuid=" + url.QueryEscape(actionUUID) + "&quick_action=1"
	return c.Post(path, nil, nil)
}

// --- Пути документов описания ---

func DescribeCharacterPath(characterID, page string) string {
	return fmt.Sprintf("/_describe/character/%s/%s", url.PathEscape(characterID), page)
}

func LookInventoryStuffPath(characterID string, stuffID int32) string {
	return DescribeCharacterPath(characterID, fmt.Sprintf("inventory_look/%d", stuffID))
}

func LookInventoryResourcePath(characterID, resourceID string) string {
	return DescribeCharacterPath(characterID, "resource_look/"+url.PathEscape(resourceID))
}

func AffinityPath(characterID string) string {
	return "/affinity/" + url.PathEscape(characterID)
}

func PostMortemPath(characterID string) string {
	return "/character/" + url.PathEscape(characterID) + "/post_mortem"
}

func zonePath(worldRow, worldCol int32, suffix string) string {
	return fmt.Sprintf("/zones/%d/%d%s", worldRow, worldCol, suffix)
}

// QueryFromValues переводит значения формы в строку запроса.
// Числа и булевы пишутся как текст, null и вложенные значения пропускаются.
func QueryFromValues(values map[string]any) url.Values {
	if len(values) == 0 {
		return nil
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := url.Values{}
	for _, k := range keys {
		switch v := values[k].(type) {
		case string:
			q.Set(k, v)
		case bool:
			q.Set(k, strconv.FormatBool(v))
		case int:
			q.Set(k, strconv.Itoa(v))
		case int32:
			q.Set(k, strconv.FormatInt(int64(v), 10))
		case int64:
			q.Set(k, strconv.FormatInt(v, 10))
		case float64:
			q.Set(k, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return q
}
