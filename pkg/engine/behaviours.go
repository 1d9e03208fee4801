package engine

import (
	"fmt"
	"math"

	"knoxshield/internal/i18n"
	"knoxshield/internal/models"
)

const (
	processThreatChance   = 0.05
	startupThreatChance   = 0.03
	signatureThreatChance = 0.02
	breachChance          = 0.3
	maxBreaches           = 5
	killerFindChance      = 0.1
	wipeSectorSize        = 20.0
)

// deepScanSim walks three phases: processes, startup entries, file signatures.
type deepScanSim struct {
	*progressSim
	phase   int
	items   int
	threats []models.ThreatDetails
}

func (s *deepScanSim) Begin() []string {
	return []string{Stamp(s.env.Now(), s.text("KNOX_DEEP_SCAN_INIT"))}
}

func (s *deepScanSim) Step() StepResult {
	s.advance()
	s.items += s.env.Rand.Intn(500) + 100

	switch {
	case s.phase == 1 && s.progress < 33:
		s.log(fmt.Sprintf("%s (%d items)", s.text("THREAT_DB_PROCESS_SCAN"), s.items))
		if s.env.Rand.Float64() < processThreatChance {
			if name, ok := s.pick(s.env.Threats.MaliciousProcessNames); ok {
				s.found(models.ThreatProcess, name, models.SeverityHigh)
			}
		}
	case s.progress >= 33 && s.phase < 2:
		s.phase = 2
		s.log(fmt.Sprintf("%s (%d items)", s.text("THREAT_DB_STARTUP_SCAN"), s.items))
	case s.phase == 2 && s.progress < 66:
		if s.env.Rand.Float64() < startupThreatChance {
			if entry, ok := s.pick(s.env.Threats.SuspiciousStartupEntries); ok {
				s.found(models.ThreatStartup, entry, models.SeverityMedium)
			}
		}
	case s.progress >= 66 && s.phase < 3:
		s.phase = 3
		s.log(fmt.Sprintf("%s (%d items)", s.text("THREAT_DB_SIGNATURE_SCAN"), s.items))
	case s.phase == 3 && s.progress < 100:
		if s.env.Rand.Float64() < signatureThreatChance && len(s.env.Threats.MalwareSignatures) > 0 {
			sig := s.env.Threats.MalwareSignatures[s.env.Rand.Intn(len(s.env.Threats.MalwareSignatures))]
			s.found(models.ThreatSignature, sig.Name, models.SeverityHigh)
		}
	}

	res := s.result()
	if s.done() {
		threats := append([]models.ThreatDetails{}, s.threats...)
		res.ScanResults = &models.ScanResults{ItemsScanned: s.items, ThreatsFound: threats}
		s.log(fmt.Sprintf("Scan complete. %d items processed. %d potential threats found.", s.items, len(threats)))
		res.Logs = s.logs
		if len(threats) > 0 {
			res.Alert = &Alert{
				Title: s.text("KNOX_ALERT_TITLE"),
				Body:  fmt.Sprintf("%d %s", len(threats), s.text("KNOX_ALERT_BODY_THREATS_DETECTED")),
			}
		}
	}
	return res
}

func (s *deepScanSim) found(kind models.ThreatType, value string, severity models.Severity) {
	s.threats = append(s.threats, models.ThreatDetails{Type: kind, Value: value, Severity: severity})
	s.log(fmt.Sprintf("%s %s: %s", s.text("THREAT_DETECTED_PREFIX"), s.text(kind.I18nKey()), value))
}

// emailBreachSim reports a random number of fake breaches when it finishes.
type emailBreachSim struct {
	*progressSim
	email string
}

func (s *emailBreachSim) Begin() []string {
	return []string{Stamp(s.env.Now(), s.text("EMAIL_BREACH_ANALYZING", i18n.Params{"email": s.email}))}
}

func (s *emailBreachSim) Step() StepResult {
	s.advance()
	if s.done() {
		breaches := 0
		if s.env.Rand.Float64() < breachChance {
			breaches = s.env.Rand.Intn(maxBreaches) + 1
		}
		if breaches > 0 {
			s.log(s.text("EMAIL_BREACH_FOUND", i18n.Params{"count": breaches, "email": s.email}))
			for i := 0; i < breaches; i++ {
				s.raw(fmt.Sprintf(" - Simulated breach entry %d from source XYZ", i+1))
			}
		} else {
			s.log(s.text("EMAIL_BREACH_NO_BREACHES", i18n.Params{"email": s.email}))
		}
	}
	return s.result()
}

// traceWiperSim logs one sector line each time progress crosses a 20% boundary.
type traceWiperSim struct {
	*progressSim
	item string
}

func (s *traceWiperSim) Begin() []string {
	return []string{Stamp(s.env.Now(), fmt.Sprintf("%s %s...", s.text("PRIVACY_WIPING_LOG_PREFIX"), s.item))}
}

func (s *traceWiperSim) Step() StepResult {
	s.advance()
	if math.Mod(s.progress, wipeSectorSize) < s.timing.Increment && s.progress < 100 {
		sector := int(math.Floor(s.progress/wipeSectorSize)) + 1
		s.log(fmt.Sprintf("Deleting %s sector %d...", s.item, sector))
	}
	if s.done() {
		s.log(s.text("PRIVACY_WIPE_COMPLETE"))
	}
	return s.result()
}

// malwareKillerSim finds processes during the first half and kills them in the second.
type malwareKillerSim struct {
	*progressSim
	pending   []string
	seen      map[string]bool
	everFound bool
}

func (s *malwareKillerSim) Begin() []string {
	return []string{Stamp(s.env.Now(), s.text("MALWARE_KILLER_SCAN_BUTTON")+"...")}
}

func (s *malwareKillerSim) Step() StepResult {
	s.advance()

	if s.progress < 50 && s.env.Rand.Float64() < killerFindChance {
		if name, ok := s.pick(s.env.Threats.MaliciousProcessNames); ok && !s.seen[name] {
			if s.seen == nil {
				s.seen = make(map[string]bool)
			}
			s.seen[name] = true
			s.everFound = true
			s.pending = append(s.pending, name)
			s.log(s.text("MALWARE_KILLER_PROCESS_FOUND", i18n.Params{"name": name}))
		}
	}

	if s.progress >= 50 && s.progress < 100 && len(s.pending) > 0 {
		name := s.pending[0]
		s.pending = s.pending[1:]
		s.log(s.text("MALWARE_KILLER_TERMINATING", i18n.Params{"name": name}))
		s.log(s.text("MALWARE_KILLER_TERMINATED", i18n.Params{"name": name}))
	}

	if s.done() {
		if !s.everFound {
			s.log(s.text("MALWARE_KILLER_NO_THREATS"))
		}
		s.log("Malware process scan & kill simulation complete.")
	}
	return s.result()
}
