package sink

import (
	"errors"
	"net/url"
	"strings"

	"github.com/gomodule/redigo/redis"
	"github.com/tidwall/geojson"
	"github.com/tidwall/linesplit/internal/field"
	"github.com/tidwall/sjson"
)

var errMissingKey = errors.New("missing tile38 collection key")

// Tile38 sends each fragment to a Tile38 collection with SET ... OBJECT.
type Tile38 struct {
	conn  redis.Conn
	key   string
	opts  Options
	count int64
}

// DialTile38 connects to a target of the form tile38://host:port/key.
func DialTile38(target string, opts Options) (*Tile38, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, err
	}
	key := strings.Trim(u.Path, "/")
	if key == "" {
		return nil, errMissingKey
	}
	host := u.Host
	if u.Port() == "" {
		host += ":9851"
	}
	conn, err := redis.Dial("tcp", host)
	if err != nil {
		return nil, err
	}
	return NewTile38(conn, key, opts), nil
}

// NewTile38 uses an open connection.
func NewTile38(conn redis.Conn, key string, opts Options) *Tile38 {
	return &Tile38{conn: conn, key: key, opts: opts}
}

// AddFeature stores the feature under its sequence number.
func (s *Tile38) AddFeature(line *geojson.LineString, fields field.List) error {
	feature := `{"type":"Feature"}`
	feature, _ = sjson.SetRaw(feature, "geometry", line.JSON())
	feature, _ = sjson.SetRaw(feature, "properties", properties(s.opts.Schema, fields))
	if _, err := redis.String(s.conn.Do("SET", s.key, s.count,
		"OBJECT", feature)); err != nil {
		return err
	}
	s.count++
	return nil
}

// Count returns the number of features written.
func (s *Tile38) Count() int64 {
	return s.count
}

// Close closes the connection.
func (s *Tile38) Close() error {
	return s.conn.Close()
}
