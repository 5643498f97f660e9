package impl

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	interf "github.com/SchnorcherSepp/stakehist/interfaces"
)

// DebugOff deactivates all debug messages. Errors, warnings or information are still printed.
const DebugOff = 0

// DebugLow shows debug messages that happen very rarely during operation (to keep the log files small).
const DebugLow = 1

// DebugHigh shows all debug messages.
const DebugHigh = 2

//--------------------------------------------------------------------------------------------------------------------//

type _HistStat struct {
	debugLvl    uint8  // enable debug logging [0, 1, 2] (level: high=2)
	packageName string // text for debug logging

	_HistGet   uint64
	_HistNone  uint64
	_HistFault uint64
	_CacheHit  uint64
	_CacheMis  uint64
	_CacheSet  uint64
	_StRead    uint64
	_StReadErr uint64
	_StPublish uint64
	_StUpdate  uint64
	_BldAdd    uint64
	_BldAddErr uint64
}

func (s *_HistStat) Stat() map[string]uint64 {
	ret := map[string]uint64{
		"HistGet":   atomic.LoadUint64(&s._HistGet),
		"HistNone":  atomic.LoadUint64(&s._HistNone),
		"HistFault": atomic.LoadUint64(&s._HistFault),
		"CacheHit":  atomic.LoadUint64(&s._CacheHit),
		"CacheMis":  atomic.LoadUint64(&s._CacheMis),
		"CacheSet":  atomic.LoadUint64(&s._CacheSet),
		"StRead":    atomic.LoadUint64(&s._StRead),
		"StReadErr": atomic.LoadUint64(&s._StReadErr),
		"StPublish": atomic.LoadUint64(&s._StPublish),
		"StUpdate":  atomic.LoadUint64(&s._StUpdate),
		"BldAdd":    atomic.LoadUint64(&s._BldAdd),
		"BldAddErr": atomic.LoadUint64(&s._BldAddErr),
	}

	// ignore zero values
	for k, v := range ret {
		if v == 0 {
			delete(ret, k)
		}
	}
	return ret
}

func (s *_HistStat) PrintStatAfterClose(id string) {
	// final call in .Close()

	first := true
	var sb strings.Builder
	for k, v := range s.Stat() {
		if !first {
			sb.WriteString(", ")
		} else {
			first = false
		}
		sb.WriteString(k)
		sb.WriteString("=")
		sb.WriteString(fmt.Sprintf("%d", v))
	}

	if s.debugLvl >= DebugLow { // Debug level: low=1
		log.Printf("DEBUG: %s/stat.PrintStatAfterClose: id=%s: %s", s.packageName, id, sb.String())
	}
}

// ------------------------------------------------------------------------------------------------------------------ //

func (s *_HistStat) HistGet(id string, epoch, off uint64) {
	atomic.AddUint64(&s._HistGet, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.HistGet: id=%s, epoch=%d, off=%d, len=%d", s.packageName, id, epoch, off, interf.RecordSize)
	}
}

func (s *_HistStat) HistNone(id string, epoch uint64, reason string) {
	atomic.AddUint64(&s._HistNone, 1)
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.HistNone: id=%s, epoch=%d, reason=%s", s.packageName, id, epoch, reason)
	}
}

func (s *_HistStat) HistFault(id string, epoch uint64, err error) {
	atomic.AddUint64(&s._HistFault, 1)
	// a fault is always logged (broken invariant in the external data)
	log.Printf("ERROR: %s/stat.HistFault: id=%s, epoch=%d, err=%v", s.packageName, id, epoch, err)
}

func (s *_HistStat) CacheGet(id string, epoch uint64, retLen int, err error) {
	if err == nil {
		atomic.AddUint64(&s._CacheHit, 1)
	} else {
		atomic.AddUint64(&s._CacheMis, 1)
	}
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.CacheGet: id=%s, epoch=%d, ret=%d/%d, err=%v", s.packageName, id, epoch, retLen, interf.RecordSize, err)
	}
}

func (s *_HistStat) CacheSet(id string, epoch uint64, data int, err error) {
	atomic.AddUint64(&s._CacheSet, 1)
	if s.debugLvl >= DebugHigh || err != nil {
		pre := "DEBUG" // Debug level: high=2
		if err != nil {
			pre = "ERROR" // Debug level: error=0
		}
		log.Printf("%s: %s/stat.CacheSet: id=%s, epoch=%d, data=%d/%d, expire=%d, err=%v", pre, s.packageName, id, epoch, data, interf.RecordSize, interf.CacheExpireSeconds, err)
	}
}

func (s *_HistStat) StRead(id string, off uint64, req int, err error) {
	if err == nil {
		atomic.AddUint64(&s._StRead, 1)
	} else {
		atomic.AddUint64(&s._StReadErr, 1)
	}
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.StRead: id=%s, off=%d, req=%d, err=%v", s.packageName, id, off, req, err)
	}
}

func (s *_HistStat) StPublish(id string, n int, err error) {
	atomic.AddUint64(&s._StPublish, 1)
	if s.debugLvl >= DebugLow || err != nil { // Debug level: low=1
		pre := "DEBUG"
		if err != nil {
			pre = "ERROR" // Debug level: error=0
		}
		log.Printf("%s: %s/stat.StPublish: id=%s, n=%d, err=%v", pre, s.packageName, id, n, err)
	}
}

func (s *_HistStat) StUpdate(n int, err error) {
	atomic.AddUint64(&s._StUpdate, 1)
	if s.debugLvl >= DebugLow || err != nil { // Debug level: low=1
		pre := "DEBUG"
		if err != nil {
			pre = "ERROR" // Debug level: error=0
		}
		log.Printf("%s: %s/stat.StUpdate: resources=%d, err=%v", pre, s.packageName, n, err)
	}
}

func (s *_HistStat) BldAdd(epoch uint64, err error) {
	atomic.AddUint64(&s._BldAdd, 1)
	if err != nil {
		atomic.AddUint64(&s._BldAddErr, 1)
	}
	if s.debugLvl >= DebugHigh { // Debug level: high=2
		log.Printf("DEBUG: %s/stat.BldAdd: epoch=%d, err=%v", s.packageName, epoch, err)
	}
}
