package domain

// ActionKind is the grow phase a recipe step represents. It is set when the
// recipe is authored and never inferred from free text.
type ActionKind string

const (
	ActionSeed        ActionKind = "seed"
	ActionSoak        ActionKind = "soak"
	ActionBlackout    ActionKind = "blackout"
	ActionGermination ActionKind = "germination"
	ActionGrowing     ActionKind = "growing"
	ActionHarvest     ActionKind = "harvest"
	ActionOther       ActionKind = "other"
)

// ValidActionKinds is the canonical set of accepted step action strings.
var ValidActionKinds = map[string]bool{
	"seed": true, "soak": true, "blackout": true, "germination": true,
	"growing": true, "harvest": true, "other": true,
}

type DurationUnit string

const (
	UnitDays  DurationUnit = "days"
	UnitHours DurationUnit = "hours"
)

type WaterType string

const (
	WaterNone      WaterType = "none"
	WaterPlain     WaterType = "water"
	WaterNutrients WaterType = "nutrients"
)

type WaterMethod string

const (
	WaterTop    WaterMethod = "top"
	WaterBottom WaterMethod = "bottom"
)

// WettingMethod is the optional one-time action right after sowing.
type WettingMethod string

const (
	WettingNone  WettingMethod = ""
	WettingMist  WettingMethod = "mist"
	WettingWater WettingMethod = "water"
)

// EventKind identifies a scheduled timeline event. Together with a day
// offset it is the key operators complete or skip.
type EventKind string

const (
	EventSeed        EventKind = "seed"
	EventSoak        EventKind = "soak"
	EventBlackout    EventKind = "blackout"
	EventGermination EventKind = "germination"
	EventUncover     EventKind = "uncover"
	EventHarvest     EventKind = "harvest"
	EventMaintenance EventKind = "maintenance"
	EventWater       EventKind = "water"
	EventWetSeeds    EventKind = "wet_seeds"
)

// ValidEventKinds is the canonical set of accepted event kind strings.
var ValidEventKinds = map[string]bool{
	"seed": true, "soak": true, "blackout": true, "germination": true,
	"uncover": true, "harvest": true, "maintenance": true, "water": true,
	"wet_seeds": true,
}

// Bucket returns the task group an event is listed under in the day view.
func (k EventKind) Bucket() TaskBucket {
	switch k {
	case EventSeed:
		return BucketSeed
	case EventSoak:
		return BucketSoak
	case EventBlackout:
		return BucketBlackout
	case EventUncover:
		return BucketUncover
	case EventHarvest:
		return BucketHarvest
	case EventWater, EventWetSeeds:
		return BucketWater
	default:
		return BucketMaintenance
	}
}

// Rank orders kinds that fall on the same day and step.
func (k EventKind) Rank() int {
	switch k {
	case EventSoak:
		return 0
	case EventSeed:
		return 1
	case EventWetSeeds:
		return 2
	case EventBlackout:
		return 3
	case EventGermination:
		return 4
	case EventUncover:
		return 5
	case EventWater:
		return 6
	case EventMaintenance:
		return 7
	case EventHarvest:
		return 8
	default:
		return 9
	}
}

type TaskBucket string

const (
	BucketWater       TaskBucket = "water"
	BucketUncover     TaskBucket = "uncover"
	BucketBlackout    TaskBucket = "blackout"
	BucketSeed        TaskBucket = "seed"
	BucketSoak        TaskBucket = "soak"
	BucketHarvest     TaskBucket = "harvest"
	BucketMaintenance TaskBucket = "maintenance"
)

// BucketOrder is the fixed display order of task groups.
var BucketOrder = []TaskBucket{
	BucketSoak, BucketSeed, BucketWater, BucketBlackout,
	BucketUncover, BucketHarvest, BucketMaintenance,
}

type Urgency string

const (
	UrgencyNormal  Urgency = "normal"
	UrgencyUrgent  Urgency = "urgent"
	UrgencyOverdue Urgency = "overdue"
)

type LossState string

const (
	TrayActive    LossState = "active"
	TrayHarvested LossState = "harvested"
	TrayLost      LossState = "lost"
)

type LossReason string

const (
	LossFungal        LossReason = "fungal"
	LossMold          LossReason = "mold"
	LossContamination LossReason = "contamination"
	LossPest          LossReason = "pest"
	LossOperatorError LossReason = "operator_error"
	LossOther         LossReason = "other"
)

// ValidLossReasons is the fixed set of reasons a tray may be marked lost with.
var ValidLossReasons = map[LossReason]bool{
	LossFungal: true, LossMold: true, LossContamination: true,
	LossPest: true, LossOperatorError: true, LossOther: true,
}

type Resolution string

const (
	ResolutionCompleted Resolution = "completed"
	ResolutionSkipped   Resolution = "skipped"
)

type SeedingStatus string

const (
	SeedingPending   SeedingStatus = "pending"
	SeedingCompleted SeedingStatus = "completed"
	SeedingCancelled SeedingStatus = "cancelled"
)

type SeedingSource string

const (
	SourceManual        SeedingSource = "manual"
	SourceStandingOrder SeedingSource = "standing_order"
)

type TaskSource string

const (
	TaskFromTray    TaskSource = "tray"
	TaskFromRequest TaskSource = "seeding_request"
)
