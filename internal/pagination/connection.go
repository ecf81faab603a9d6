package pagination

type Edge[T any] struct {
	Cursor string `json:"cursor"`
	Node   T      `json:"node"`
}

type PageInfo struct {
	HasNextPage bool    `json:"has_next_page"`
	EndCursor   *string `json:"end_cursor"`
}

type Connection[T any] struct {
	Edges    []Edge[T] `json:"edges"`
	PageInfo PageInfo  `json:"page_info"`
}

// Build shapes an over-fetched row set into a page. The caller must have
// queried limit+1 rows: the extra row, if present, only proves another page
// exists and is discarded. key extracts the sort-key value a row's cursor
// encodes.
func Build[T any](rows []T, limit int, key func(T) string) Connection[T] {
	hasNext := len(rows) > limit
	if hasNext {
		rows = rows[:limit]
	}

	edges := make([]Edge[T], 0, len(rows))
	for _, row := range rows {
		edges = append(edges, Edge[T]{Cursor: EncodeCursor(key(row)), Node: row})
	}

	info := PageInfo{HasNextPage: hasNext}
	if len(edges) > 0 {
		last := edges[len(edges)-1].Cursor
		info.EndCursor = &last
	}

	return Connection[T]{Edges: edges, PageInfo: info}
}

// Map rebuilds a connection with transformed nodes, keeping cursors and page
// info intact. Handlers use it to swap domain rows for response DTOs.
func Map[T, U any](conn Connection[T], fn func(T) U) Connection[U] {
	edges := make([]Edge[U], 0, len(conn.Edges))
	for _, e := range conn.Edges {
		edges = append(edges, Edge[U]{Cursor: e.Cursor, Node: fn(e.Node)})
	}
	return Connection[U]{Edges: edges, PageInfo: conn.PageInfo}
}
