package dexapkvisit

//
// Interface for visiting the results of checking Android DEX files,
// either standalone or inside an APK. Visit order is logically
// top-down, e.g.
//
//        VisitAPK("mumble.apk")
//          VisitDEX("classes.dex", "035", 1200)
//            VisitWarning("classes.dex", "Header size != 0x70 (got 0x68)")
//            VisitStringOrder("classes.dex", true, 0)
//          VisitDEX("classes2.dex", "035", 800)
//            VisitStringOrder("classes2.dex", false, 17)
//
// VisitAPK is omitted when a bare DEX file is checked. A DEX file
// that fails to decode produces no VisitStringOrder; the reader
// returns an error instead.
//
type DexApkVisitor interface {
	VisitAPK(apk string)
	VisitDEX(dexname string, version string, nstrings uint32)
	VisitWarning(dexname string, warning string)
	// index is the first out-of-order string id; zero when ordered.
	VisitStringOrder(dexname string, ordered bool, index uint32)
	Verbose(vlevel int, s string, a ...interface{})
}
