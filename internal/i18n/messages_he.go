package i18n

var hebrew = map[string]string{
	// Import engine
	"import.empty_file":      "הקובץ ריק או מכיל רק כותרת.",
	"import.missing_columns": "קובץ CSV חסר עמודות חובה: %s",
	"import.row.required":    "שורה %s: %s הוא שדה חובה.",
	"import.row.enum":        "שורה %s: %s לא מוכר: %s.",
	"import.row.email":       "שורה %s: %s לא תקין: %s.",
	"import.row.number":      "שורה %s: %s אינו מספר תקין: %s.",
	"import.row.invalid":     "שורה %s: %s",
	"import.errors_header":   "נמצאו %s שגיאות בקובץ. מוצגות %s הראשונות:",
	"import.success":         "%s רשומות יובאו בהצלחה.",
	"import.preview_ok":      "הקובץ תקין: %s רשומות מוכנות לייבוא.",

	// User-facing error codes
	"error.IMP001.message":   "הקובץ ריק או מכיל רק כותרת.",
	"error.IMP001.action":    "יש להעלות קובץ עם שורת כותרת ולפחות שורת נתונים אחת.",
	"error.IMP002.message":   "קובץ CSV חסר עמודות חובה.",
	"error.IMP002.action":    "יש להוריד את התבנית ולוודא שכל העמודות קיימות.",
	"error.IMP003.message":   "נמצאו שורות לא תקינות בקובץ.",
	"error.IMP003.action":    "יש לתקן את השורות המסומנות ולנסות שוב.",
	"error.IMP004.message":   "סוג ייבוא לא מוכר.",
	"error.IMP004.action":    "יש לבחור סוג ייבוא מהרשימה.",
	"error.FILE001.message":  "הקובץ חורג מגודל הקובץ המותר.",
	"error.FILE001.action":   "יש לפצל את הקובץ לקבצים קטנים יותר.",
	"error.FILE002.message":  "יש לבחור קובץ מסוג CSV בלבד.",
	"error.FILE002.action":   "יש לשמור את הקובץ בפורמט CSV.",
	"error.FILE003.message":  "הקובץ מכיל תווים לא תקינים.",
	"error.FILE003.action":   "יש לשמור את הקובץ בקידוד UTF-8.",
	"error.FILE004.message":  "לא נבחר קובץ.",
	"error.FILE004.action":   "יש לבחור קובץ CSV להעלאה.",
	"error.AUTH001.message":  "אימייל או סיסמה שגויים",
	"error.AUTH001.action":   "יש לבדוק את פרטי ההתחברות ולנסות שוב.",
	"error.AUTH002.message":  "נדרשת התחברות.",
	"error.AUTH002.action":   "יש להתחבר מחדש.",
	"error.AUTH003.message":  "אין הרשאה לבצע פעולה זו.",
	"error.AUTH003.action":   "פעולה זו זמינה למנהל המערכת בלבד.",
	"error.CLN001.message":   "המטופל לא נמצא.",
	"error.CLN001.action":    "יש לרענן את הרשימה ולנסות שוב.",
	"error.CLN002.message":   "התשלום לא נמצא.",
	"error.CLN002.action":    "יש לרענן את הרשימה ולנסות שוב.",
	"error.CLN003.message":   "המטפל לא נמצא.",
	"error.CLN003.action":    "יש לבחור מטפל מהרשימה.",
	"error.CLN004.message":   "בקשה לא תקינה.",
	"error.CLN004.action":    "יש לבדוק את הנתונים שנשלחו.",
	"error.STORE001.message": "שגיאה בעת ייבוא הנתונים לשרת.",
	"error.STORE001.action":  "יש לנסות שוב בעוד מספר רגעים.",
	"error.STORE002.message": "לא ניתן להתחבר למסד הנתונים.",
	"error.STORE002.action":  "יש לנסות שוב בעוד מספר רגעים.",
	"error.STORE003.message": "רשומה עם מזהה זה כבר קיימת.",
	"error.STORE003.action":  "יש לנסות את הייבוא שוב.",
	"error.UPL001.message":   "המערכת עסוקה בייבוא אחר.",
	"error.UPL001.action":    "יש להמתין מעט ולנסות שוב.",
	"error.UPL002.message":   "הבקשה בוטלה.",
	"error.UPL002.action":    "יש לנסות שוב.",
	"error.UPL003.message":   "תם הזמן המוקצב לבקשה.",
	"error.UPL003.action":    "יש לנסות שוב עם קובץ קטן יותר.",
	"error.RATE001.message":  "יותר מדי בקשות.",
	"error.RATE001.action":   "יש להמתין רגע לפני ניסיון נוסף.",
	"error.ERR000.message":   "אירעה שגיאה בלתי צפויה.",
	"error.ERR000.action":    "יש לנסות שוב או לפנות לתמיכה.",
}
