package telemetry

// InputColumns is the canonical header of the onboard logger CSV export.
// The first line of every input file must match it verbatim and in order;
// this slice is the single source of truth for column positions.
var InputColumns = []string{
	"Date",
	"Time",
	"SWR",
	"RSSI(dB)",
	"RxBt(V)",
	"A1(V)",
	"A2(V)",
	"GPS Date",
	"GPS Time",
	"Long",
	"Lat",
	"Course(deg)",
	"GPS Speed(kmh)",
	"GPS Alt(m)",
	"Sats",
	"Alt(m)",
	"VFAS(V)",
	"Cels(V)",
	"Cel1(V)",
	"Cel2(V)",
	"Cel3(V)",
	"Cel4(V)",
	"Cel5(V)",
	"Cel6(V)",
	"Curr(A)",
	"Capa(mAh)",
	"Power(W)",
	"Tmp1(C)",
	"Tmp2(C)",
	"VSpd(m/s)",
	"Rud",
	"Ele",
	"Thr",
	"Ail",
	"S1",
	"S2",
	"S3",
	"LS",
	"RS",
	"SA",
	"SB",
	"SC",
	"SD",
	"SE",
	"SF",
	"SG",
	"SH",
}

// Positions of the columns the analysis and the export projection touch.
const (
	ColDate        = 0
	ColTime        = 1
	ColAltitude    = 15
	ColPackVoltage = 16
	ColCellsTotal  = 17
	ColCell1       = 18
	ColCell2       = 19
	ColCell3       = 20
	ColCurrent     = 24
	ColConsumption = 25
	ColRudder      = 30
	ColElevator    = 31
	ColThrottle    = 32
	ColAileron     = 33
)

// ExportColumns is the reduced header written to the cleaned output
// stream. Altitude is replaced by its calibrated value and Time by its
// truncated display copy; every other field passes through unchanged.
var ExportColumns = []string{
	"Date",
	"Time",
	"Alt(m)",
	"VFAS(V)",
	"Cel1(V)",
	"Cel2(V)",
	"Cel3(V)",
	"Curr(A)",
	"Capa(mAh)",
	"Rud",
	"Ele",
	"Thr",
	"Ail",
}

// ExportSources maps each export column to its input column. Time and
// Alt(m) values are rewritten by the writer; the rest pass through.
var ExportSources = []int{
	ColDate,
	ColTime,
	ColAltitude,
	ColPackVoltage,
	ColCell1,
	ColCell2,
	ColCell3,
	ColCurrent,
	ColConsumption,
	ColRudder,
	ColElevator,
	ColThrottle,
	ColAileron,
}
