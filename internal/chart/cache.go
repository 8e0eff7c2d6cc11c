package chart

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"fitdash/internal/analysis"
)

const megabyte = 1024 * 1024

// Cache memoizes built chart specs. Entries are keyed by metric, sport and
// fingerprints of the samples, the zones and the build options, so any input
// change is a new key rather than an invalidation.
type Cache struct {
	cache   *freecache.Cache
	builder *Builder
	expire  int // seconds, 0 means no expiry
}

// NewCache creates a cache of sizeMB megabytes around builder
func NewCache(builder *Builder, sizeMB, expireSeconds int) *Cache {
	if sizeMB <= 0 {
		sizeMB = 8
	}
	return &Cache{
		cache:   freecache.NewCache(sizeMB * megabyte),
		builder: builder,
		expire:  expireSeconds,
	}
}

// Build returns the cached spec for req, building and storing it on a miss
func (c *Cache) Build(req Request) (*Spec, error) {
	key := CacheKey(req)

	if specBytes, err := c.cache.Get([]byte(key)); err == nil {
		spec := &Spec{}
		if err = json.Unmarshal(specBytes, spec); err == nil {
			log.Tracef("chart cache hit: %s", key)
			return spec, nil
		}
		log.Errorf("failed to unmarshal cached chart %s: %s", key, err)
	}

	spec, err := c.builder.Build(req)
	if err != nil {
		return nil, err
	}

	specBytes, err := spec.JSON()
	if err != nil {
		return nil, fmt.Errorf("encoding chart spec: %w", err)
	}
	if err = c.cache.Set([]byte(key), specBytes, c.expire); err != nil {
		// too large for the cache; still usable
		log.Warnf("failed to cache chart %s: %s", key, err)
	}
	return spec, nil
}

// Stats returns the hit and miss counters
func (c *Cache) Stats() (hits, misses int64) {
	return c.cache.HitCount(), c.cache.MissCount()
}

// Clear drops every entry
func (c *Cache) Clear() {
	c.cache.Clear()
}

// CacheKey derives the cache key of req
func CacheKey(req Request) string {
	return fmt.Sprintf("%s::%s::%016x::%016x::%016x",
		req.Metric, req.Sport,
		SamplesFingerprint(req.Samples),
		ZonesFingerprint(req.Zones),
		optionsFingerprint(req),
	)
}

// SamplesFingerprint hashes timestamps, metrics and values in order
func SamplesFingerprint(samples []Sample) uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, s := range samples {
		binary.LittleEndian.PutUint64(buf[:], uint64(s.Timestamp.UnixNano()))
		_, _ = d.Write(buf[:])
		_, _ = d.WriteString(string(s.Metric))
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(s.Value))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

// ZonesFingerprint hashes the zone bounds; nil zones hash to 0
func ZonesFingerprint(zones *analysis.ZoneBoundaries) uint64 {
	if zones == nil {
		return 0
	}
	d := xxhash.New()
	var buf [8]byte
	for _, v := range zones {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = d.Write(buf[:])
	}
	return d.Sum64()
}

func optionsFingerprint(req Request) uint64 {
	opts := fmt.Sprintf("%d:%v|%d:%v|%d|%s|%t|%d",
		req.Override.Min.Kind, req.Override.Min.Value,
		req.Override.Max.Kind, req.Override.Max.Value,
		req.Override.TickIntervalSeconds,
		req.Title, req.Rolling, req.RollingWindow,
	)
	return xxhash.Sum64String(opts)
}
