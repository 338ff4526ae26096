package quantities

// Duration is a span of seconds.
type Duration uint32

// OneDay is used to correct midnight-crossing stop times (§8 boundary
// behaviors: "add one day before computing travel duration").
const OneDay = Duration(86400)

func FromSeconds(s uint32) Duration { return Duration(s) }
func FromMinutes(m uint32) Duration { return Duration(m * 60) }
func FromHours(h uint32) Duration   { return Duration(h * 3600) }
func FromDays(d uint32) Duration    { return Duration(d * 86400) }

func (d Duration) Seconds() uint32 { return uint32(d) }

func (d Duration) Add(other Duration) Duration { return d + other }
func (d Duration) Sub(other Duration) Duration { return d - other }
